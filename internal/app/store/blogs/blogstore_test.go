package blogstore

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newBlog(title string) CreateInput {
	return CreateInput{Title: title, Description: "d", Content: "<p>c</p>", Image: "/img.jpg"}
}

func TestStore_Create_DefaultsAndSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, newBlog("Hello, World!"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Slug != "hello-world" {
		t.Errorf("Slug = %q, want hello-world", b.Slug)
	}
	if b.Author != models.DefaultBlogAuthor {
		t.Errorf("Author = %q, want %q", b.Author, models.DefaultBlogAuthor)
	}
	if b.MetaTitle != "Hello, World!" || b.MetaDescription != "d" {
		t.Errorf("meta = %q/%q", b.MetaTitle, b.MetaDescription)
	}
	if !b.IsActive || b.PublishedAt.IsZero() {
		t.Errorf("IsActive = %v, PublishedAt = %v", b.IsActive, b.PublishedAt)
	}

	dup, err := store.Create(ctx, newBlog("Hello World"))
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if !strings.HasPrefix(dup.Slug, "hello-world-") || dup.Slug == "hello-world" {
		t.Errorf("duplicate Slug = %q, want hello-world-<millis>", dup.Slug)
	}
}

func TestStore_SlugTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, err := store.Create(ctx, newBlog("Spring Sale"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	taken, err := store.SlugTaken(ctx, "spring-sale", primitive.NilObjectID)
	if err != nil || !taken {
		t.Errorf("SlugTaken() = %v, %v, want true", taken, err)
	}
	taken, err = store.SlugTaken(ctx, "spring-sale", b.ID)
	if err != nil || taken {
		t.Errorf("SlugTaken(exclude self) = %v, %v, want false", taken, err)
	}
}

func TestStore_Update_RegeneratesSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, _ := store.Create(ctx, newBlog("First Title"))

	updated, err := store.Update(ctx, b.ID, UpdateInput{Title: strPtr("Second Title")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Slug != "second-title" || updated.Description != "d" {
		t.Errorf("Update() = slug %q, description %q", updated.Slug, updated.Description)
	}

	// Keeping its own slug is not a collision.
	updated, err = store.Update(ctx, b.ID, UpdateInput{Slug: strPtr("second-title")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Slug != "second-title" {
		t.Errorf("Slug = %q, want second-title", updated.Slug)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), UpdateInput{Title: strPtr("x")}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("Update(unknown) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_ListSearchAndSort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, title := range []string{"Banana bread", "apple pie", "Cherry (tart)"} {
		if _, err := store.Create(ctx, newBlog(title)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, pg, err := store.List(ctx, ListFilter{Search: "(TART", Page: storeutil.NewPage(1, 10, 10)})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || pg.TotalItems != 1 || got[0].Title != "Cherry (tart)" {
		t.Errorf("List(search) = %d items, total %d", len(got), pg.TotalItems)
	}

	got, _, err = store.List(ctx, ListFilter{Sort: "title", Page: storeutil.NewPage(1, 2, 10)})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "Banana bread" {
		t.Errorf("List(sort=title) first = %+v", got)
	}
}

func TestStore_GetBySlug_ActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := newBlog("Draft")
	in.IsActive = boolPtr(false)
	if _, err := store.Create(ctx, in); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.GetBySlug(ctx, "draft"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetBySlug(inactive) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Latest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		in := newBlog("Post " + string(rune('A'+i)))
		at := base.Add(time.Duration(i) * time.Minute)
		in.PublishedAt = &at
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	latest, err := store.Latest(ctx, 0, false)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(latest) != DefaultLatestLimit || latest[0].Title != "Post E" {
		t.Errorf("Latest() = %d items, first %q", len(latest), latest[0].Title)
	}

	random, err := store.Latest(ctx, 2, true)
	if err != nil {
		t.Fatalf("Latest(random) error = %v", err)
	}
	if len(random) != 2 {
		t.Errorf("Latest(random) len = %d, want 2", len(random))
	}
}

func TestStore_ToggleAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b, _ := store.Create(ctx, newBlog("Toggle me"))
	toggled, err := store.ToggleStatus(ctx, b.ID)
	if err != nil || toggled.IsActive {
		t.Errorf("ToggleStatus() = %+v, %v", toggled, err)
	}
	if ok, _ := store.Exists(ctx, b.ID); !ok {
		t.Error("Exists() = false before delete")
	}
	if err := store.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := store.Exists(ctx, b.ID); ok {
		t.Error("Exists() = true after delete")
	}
}
