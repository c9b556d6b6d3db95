package storeutil

import (
	"errors"
	"testing"

	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		page      int64
		limit     int64
		wantPage  int64
		wantLimit int64
	}{
		{"defaults", 0, 0, 1, 10},
		{"explicit", 3, 25, 3, 25},
		{"negative page", -2, 5, 1, 5},
		{"capped limit", 1, 1000, 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.page, tt.limit, 10)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("NewPage() = %+v, want page %d limit %d", p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPageFindOptions(t *testing.T) {
	sort := bson.D{{Key: "order", Value: 1}}
	opts := NewPage(3, 20, 10).FindOptions(sort)
	if opts.Skip == nil || *opts.Skip != 40 {
		t.Errorf("Skip = %v, want 40", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 20 {
		t.Errorf("Limit = %v, want 20", opts.Limit)
	}

	opts = NewPage(0, 0, 10).FindOptions(sort)
	if *opts.Skip != 0 || *opts.Limit != 10 {
		t.Errorf("first page skip/limit = %d/%d, want 0/10", *opts.Skip, *opts.Limit)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int64
		wantPages int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{101, 50, 3},
	}

	for _, tt := range tests {
		got := NewPagination(Page{Page: 1, Limit: tt.limit}, tt.total)
		if got.TotalPages != tt.wantPages {
			t.Errorf("NewPagination(total=%d, limit=%d).TotalPages = %d, want %d", tt.total, tt.limit, got.TotalPages, tt.wantPages)
		}
		if got.TotalItems != tt.total || got.ItemsPerPage != tt.limit {
			t.Errorf("NewPagination() = %+v", got)
		}
	}
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := ParseID(id.Hex())
	if err != nil || got != id {
		t.Errorf("ParseID(valid) = %v, %v", got, err)
	}

	for _, bad := range []string{"", "xyz", "123"} {
		if _, err := ParseID(bad); !errors.Is(err, mongo.ErrNoDocuments) {
			t.Errorf("ParseID(%q) error = %v, want ErrNoDocuments", bad, err)
		}
	}
}

func TestSearchRegex(t *testing.T) {
	re := SearchRegex("a.b (c)")
	if re.Pattern != `a\.b \(c\)` {
		t.Errorf("Pattern = %q", re.Pattern)
	}
	if re.Options != "i" {
		t.Errorf("Options = %q, want i", re.Options)
	}
}

func TestNextOrderAndToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := db.Collection("storeutil_items")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	next, err := NextOrder(ctx, c)
	if err != nil {
		t.Fatalf("NextOrder() error = %v", err)
	}
	if next != 1 {
		t.Errorf("NextOrder() on empty = %d, want 1", next)
	}

	id := primitive.NewObjectID()
	if _, err := c.InsertMany(ctx, []any{
		bson.M{"_id": id, "order": 4, "is_active": true},
		bson.M{"order": 2, "is_active": true},
	}); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	next, err = NextOrder(ctx, c)
	if err != nil {
		t.Fatalf("NextOrder() error = %v", err)
	}
	if next != 5 {
		t.Errorf("NextOrder() = %d, want 5", next)
	}

	var doc struct {
		IsActive bool `bson:"is_active"`
	}
	if err := ToggleActive(ctx, c, id, &doc); err != nil {
		t.Fatalf("ToggleActive() error = %v", err)
	}
	if doc.IsActive {
		t.Error("ToggleActive() should flip is_active to false")
	}

	err = ToggleActive(ctx, c, primitive.NewObjectID(), &doc)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleActive(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestFindPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := db.Collection("storeutil_items")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 1; i <= 5; i++ {
		if _, err := c.InsertOne(ctx, bson.M{"order": i, "is_active": i%2 == 1}); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
	}

	active := true
	var out []struct {
		Order int `bson:"order"`
	}
	pg, err := FindPage(ctx, c, ActiveFilter(bson.M{}, &active), NewPage(2, 2, 10), bson.D{{Key: "order", Value: 1}}, &out)
	if err != nil {
		t.Fatalf("FindPage() error = %v", err)
	}
	if pg.TotalItems != 3 || pg.TotalPages != 2 || pg.CurrentPage != 2 {
		t.Errorf("pagination = %+v", pg)
	}
	if len(out) != 1 || out[0].Order != 5 {
		t.Errorf("page 2 = %+v, want [order 5]", out)
	}
}
