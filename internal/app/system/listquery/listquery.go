// Package listquery reads the list and path parameters shared by the admin
// listing endpoints: page, limit, isActive-style flags and ids.
package listquery

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLimit is the page size used when the request gives none.
const DefaultLimit = 10

// Page reads page and limit. Missing or unparseable values fall back to
// page 1 and def; limit is capped at storeutil.MaxLimit.
func Page(r *http.Request, def int64) storeutil.Page {
	return storeutil.NewPage(Int(r, "page"), Int(r, "limit"), def)
}

// Int reads an integer query parameter, returning 0 when absent or invalid.
func Int(r *http.Request, name string) int64 {
	n, err := strconv.ParseInt(query.Get(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Bool reads a "true"/"false" query parameter. Any other value, including
// an absent one, yields nil so the caller does not filter.
func Bool(r *http.Request, name string) *bool {
	switch query.Get(r, name) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// String reads a trimmed query parameter.
func String(r *http.Request, name string) string {
	return query.Get(r, name)
}

// ID parses the chi URL parameter key as an ObjectID. Malformed ids return
// storeutil.ErrNotFound.
func ID(r *http.Request, key string) (primitive.ObjectID, error) {
	return storeutil.ParseID(chi.URLParam(r, key))
}

// OptionalID parses the query parameter name as an ObjectID. An absent or
// malformed value yields the zero id.
func OptionalID(r *http.Request, name string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(query.Get(r, name))
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
