package validators

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/indexes"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := EnsureAll(ctx, db, zap.NewNop()); err != nil {
			t.Fatalf("EnsureAll() run %d error = %v", i+1, err)
		}
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames() error = %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, c := range collections {
		if !have[c.name] {
			t.Errorf("collection %s missing after EnsureAll", c.name)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errClass
	}{
		{"nil", nil, otherErr},
		{"generic", errors.New("boom"), otherErr},
		{"code 48", mongo.CommandError{Code: 48, Message: "x"}, namespaceExists},
		{"exists message", errors.New("Collection already exists. NS: db.c"), namespaceExists},
		{"code 59", mongo.CommandError{Code: 59, Message: "x"}, unsupported},
		{"code 115", mongo.CommandError{Code: 115, Message: "x"}, unsupported},
		{"no such command", errors.New("no such command: 'collMod'"), unsupported},
		{"not supported", mongo.CommandError{Message: "Feature not supported"}, unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlogCommentsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	c := db.Collection(indexes.BlogComments)
	good := bson.M{
		"blog_id":     primitive.NewObjectID(),
		"parent_id":   nil,
		"name":        "Ann",
		"email":       "ann@example.com",
		"comment":     "Nice post",
		"is_approved": false,
	}
	if _, err := c.InsertOne(ctx, good); err != nil {
		t.Fatalf("InsertOne(valid) error = %v", err)
	}

	bad := bson.M{
		"blog_id":     "not-an-object-id",
		"name":        "   ",
		"email":       "ann@example.com",
		"comment":     "Nice post",
		"is_approved": false,
	}
	if _, err := c.InsertOne(ctx, bad); err == nil {
		t.Error("InsertOne(invalid) should be rejected by the validator")
	}
}

func TestHeroBannersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	c := db.Collection(indexes.HeroBanners)
	if _, err := c.InsertOne(ctx, bson.M{"img_src": "/a.png", "heading": "Sale", "order": 0, "is_active": true}); err != nil {
		t.Fatalf("InsertOne(valid) error = %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"heading": "No image"}); err == nil {
		t.Error("hero banner without img_src should be rejected")
	}

	cd := db.Collection(indexes.BannerCountdowns)
	if _, err := cd.InsertOne(ctx, bson.M{"title": "Ends", "end_date": "tomorrow"}); err == nil {
		t.Error("countdown with a string end_date should be rejected")
	}
	if _, err := cd.InsertOne(ctx, bson.M{"title": "Ends", "end_date": time.Now().UTC()}); err != nil {
		t.Errorf("InsertOne(countdown) error = %v", err)
	}
}
