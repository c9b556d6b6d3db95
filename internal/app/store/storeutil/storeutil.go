// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxLimit caps the page size of every paginated list.
const MaxLimit = 100

// ErrNotFound is what stores return for unknown or malformed ids.
var ErrNotFound = mongo.ErrNoDocuments

// Page is a normalized 1-based page request.
type Page struct {
	Page  int64
	Limit int64
}

// NewPage clamps page to >= 1 and limit to 1..MaxLimit, using def when limit <= 0.
func NewPage(page, limit, def int64) Page {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// FindOptions returns skip/limit options for p with the given sort.
func (p Page) FindOptions(sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip((p.Page - 1) * p.Limit).
		SetLimit(p.Limit)
}

// Pagination is the page summary returned alongside list results.
type Pagination struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int64 `json:"itemsPerPage"`
}

// NewPagination summarizes total matching items for p.
func NewPagination(p Page, total int64) Pagination {
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   int64(math.Ceil(float64(total) / float64(p.Limit))),
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// FindPage runs the filter with p and sort, decodes into out and counts the
// total. The count is a separate query; the two may disagree under writes.
func FindPage(ctx context.Context, c *mongo.Collection, filter any, p Page, sort bson.D, out any) (Pagination, error) {
	cur, err := c.Find(ctx, filter, p.FindOptions(sort))
	if err != nil {
		return Pagination{}, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return Pagination{}, err
	}
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return Pagination{}, err
	}
	return NewPagination(p, total), nil
}

// NextOrder returns max(order)+1 over the collection, or 1 when it is empty.
// Concurrent callers may receive the same value.
func NextOrder(ctx context.Context, c *mongo.Collection) (int, error) {
	var doc struct {
		Order int `bson:"order"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})
	err := c.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if doc.Order < 0 {
		return 1, nil
	}
	return doc.Order + 1, nil
}

// ParseID parses a hex ObjectID. Malformed ids report ErrNotFound so callers
// treat them like unknown ids.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

// ActiveFilter adds an isActive condition to filter when isActive is set.
func ActiveFilter(filter bson.M, isActive *bool) bson.M {
	if isActive != nil {
		filter["is_active"] = *isActive
	}
	return filter
}

// SearchRegex returns a case-insensitive regex that matches term literally.
func SearchRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// ToggleActive flips is_active on the document with id and decodes the
// updated document into out.
func ToggleActive(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, out any) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"is_active":  bson.M{"$not": bson.A{"$is_active"}},
			"updated_at": time.Now().UTC(),
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(out)
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// Default returns def when v is empty.
func Default(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
