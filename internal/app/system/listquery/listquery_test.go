package listquery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int64
		wantLimit int64
	}{
		{"defaults", "/blogs", 1, DefaultLimit},
		{"explicit", "/blogs?page=3&limit=25", 3, 25},
		{"garbage", "/blogs?page=abc&limit=-4", 1, DefaultLimit},
		{"capped", "/blogs?limit=500", 1, storeutil.MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			p := Page(req, DefaultLimit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("Page() = %+v, want page %d limit %d", p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestBool(t *testing.T) {
	tests := map[string]*bool{
		"/x?isActive=true":  func() *bool { v := true; return &v }(),
		"/x?isActive=false": func() *bool { v := false; return &v }(),
		"/x?isActive=yes":   nil,
		"/x":                nil,
	}
	for target, want := range tests {
		got := Bool(httptest.NewRequest(http.MethodGet, target, nil), "isActive")
		if (got == nil) != (want == nil) || (got != nil && *got != *want) {
			t.Errorf("Bool(%q) = %v, want %v", target, got, want)
		}
	}
}

func TestID(t *testing.T) {
	valid := primitive.NewObjectID()
	withParam := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := ID(withParam(valid.Hex()), "id")
	if err != nil || id != valid {
		t.Errorf("ID(valid) = %v, %v", id, err)
	}
	if _, err := ID(withParam("not-an-id"), "id"); !errors.Is(err, storeutil.ErrNotFound) {
		t.Errorf("ID(malformed) error = %v, want ErrNotFound", err)
	}
}

func TestOptionalID(t *testing.T) {
	valid := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodGet, "/?blogId="+valid.Hex(), nil)
	if got := OptionalID(req, "blogId"); got != valid {
		t.Errorf("OptionalID() = %v, want %v", got, valid)
	}
	req = httptest.NewRequest(http.MethodGet, "/?blogId=nope", nil)
	if got := OptionalID(req, "blogId"); !got.IsZero() {
		t.Errorf("OptionalID(malformed) = %v, want zero", got)
	}
}
