package staticpagestore

import (
	"errors"
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

func TestStore_Create_DefaultsAndSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, CreateInput{Title: "Shipping", Slug: "  Shipping-Info ", Content: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Slug != "shipping-info" {
		t.Errorf("Slug = %q, want shipping-info", p.Slug)
	}
	if p.PageType != models.PageTypeOther {
		t.Errorf("PageType = %q, want other", p.PageType)
	}
	if p.MetaTitle != "Shipping" || p.MetaDescription != "Shipping" {
		t.Errorf("meta = %q/%q, want title for both", p.MetaTitle, p.MetaDescription)
	}

	_, err = store.Create(ctx, CreateInput{Title: "Dup", Slug: "shipping-info", Content: "x"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Errorf("duplicate Create() error = %v, want ErrSlugTaken", err)
	}
}

func TestStore_Update_SlugCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, CreateInput{Title: "A", Slug: "a", Content: "x"})
	if _, err := store.Create(ctx, CreateInput{Title: "B", Slug: "b", Content: "x"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := store.Update(ctx, a.ID, UpdateInput{Slug: strPtr("B")}); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("Update() error = %v, want ErrSlugTaken", err)
	}
	updated, err := store.Update(ctx, a.ID, UpdateInput{Slug: strPtr("a"), Title: strPtr("A2")})
	if err != nil {
		t.Fatalf("Update(own slug) error = %v", err)
	}
	if updated.Title != "A2" || updated.Content != "x" {
		t.Errorf("Update() = %+v", updated)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), UpdateInput{Title: strPtr("x")}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("Update(unknown) error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_PublicReads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, _ := store.Create(ctx, CreateInput{Title: "Privacy", Slug: "privacy", Content: "x", PageType: models.PageTypePrivacyPolicy})
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Create(ctx, CreateInput{Title: "Privacy v2", Slug: "privacy-v2", Content: "x", PageType: models.PageTypePrivacyPolicy}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, CreateInput{Title: "Hidden", Slug: "hidden", Content: "x", IsActive: boolPtr(false)}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	link, err := store.FirstActiveByType(ctx, models.PageTypePrivacyPolicy)
	if err != nil {
		t.Fatalf("FirstActiveByType() error = %v", err)
	}
	if link == nil || link.ID != first.ID {
		t.Errorf("FirstActiveByType() = %+v, want the oldest privacy page", link)
	}
	if link, err := store.FirstActiveByType(ctx, models.PageTypeFAQs); err != nil || link != nil {
		t.Errorf("FirstActiveByType(faqs) = %+v, %v, want nil", link, err)
	}

	links, err := store.ActiveLinks(ctx)
	if err != nil {
		t.Fatalf("ActiveLinks() error = %v", err)
	}
	if len(links) != 2 || links[0].Slug != "privacy-v2" {
		t.Errorf("ActiveLinks() = %+v", links)
	}

	if _, err := store.GetBySlug(ctx, "hidden"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetBySlug(inactive) error = %v, want ErrNoDocuments", err)
	}
	if p, err := store.GetBySlug(ctx, " PRIVACY "); err != nil || p.ID != first.ID {
		t.Errorf("GetBySlug() = %v, %v", p, err)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, _ := store.Create(ctx, CreateInput{Title: "FAQ", Slug: "faq", Content: "x", PageType: models.PageTypeFAQs})
	if _, err := store.Create(ctx, CreateInput{Title: "Returns", Slug: "returns", Content: "x", PageType: models.PageTypeReturnRefund}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, pg, err := store.List(ctx, ListFilter{PageType: models.PageTypeFAQs, Page: storeutil.NewPage(1, 10, 10)})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || pg.TotalItems != 1 {
		t.Errorf("List(pageType) = %d items, total %d", len(got), pg.TotalItems)
	}
	got, _, _ = store.List(ctx, ListFilter{Search: "RET", Page: storeutil.NewPage(1, 10, 10)})
	if len(got) != 1 || got[0].Slug != "returns" {
		t.Errorf("List(search) = %+v", got)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, p.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Delete() error = %v, want ErrNoDocuments", err)
	}
}
