package herobannerstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func strPtr(s string) *string { return &s }

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if New(db) == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hb, err := store.Create(ctx, models.HeroBanner{ImgSrc: "/img/h.jpg", Heading: "New season", IsActive: true, CreatedBy: "admin-1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if hb.Alt != models.DefaultHeroAlt || hb.BtnText != models.DefaultHeroButtonText || hb.ButtonLink != models.DefaultHeroButtonLink {
		t.Errorf("defaults = %q/%q/%q", hb.Alt, hb.BtnText, hb.ButtonLink)
	}
	if hb.Order != 1 {
		t.Errorf("Order = %d, want 1", hb.Order)
	}
	if hb.UpdatedBy != "admin-1" {
		t.Errorf("UpdatedBy = %q, want admin-1", hb.UpdatedBy)
	}
}

func TestStore_ActiveAndReorder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, models.HeroBanner{ImgSrc: "a", Heading: "A", IsActive: true})
	b, _ := store.Create(ctx, models.HeroBanner{ImgSrc: "b", Heading: "B", IsActive: true})
	if _, err := store.Create(ctx, models.HeroBanner{ImgSrc: "c", Heading: "C", IsActive: false}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	matched, err := store.Reorder(ctx, []OrderUpdate{
		{ID: a.ID, Order: 20},
		{ID: b.ID, Order: 10},
		{ID: primitive.NewObjectID(), Order: 1},
	})
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	if matched != 2 {
		t.Errorf("Reorder() matched = %d, want 2", matched)
	}

	active, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if len(active) != 2 || active[0].Heading != "B" || active[1].Heading != "A" {
		t.Errorf("Active() = %+v, want [B A]", active)
	}

	all, pg, err := store.List(ctx, ListFilter{Page: storeutil.NewPage(1, 10, 10)})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || pg.TotalItems != 3 {
		t.Errorf("List() len = %d, total = %d, want 3", len(all), pg.TotalItems)
	}
}

func TestStore_UpdateDeleteToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hb, err := store.Create(ctx, models.HeroBanner{ImgSrc: "a", Heading: "A", Subheading: "keep", IsActive: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := store.Update(ctx, hb.ID, UpdateInput{Heading: strPtr("B"), UpdatedBy: "admin-2"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Heading != "B" || updated.Subheading != "keep" || updated.UpdatedBy != "admin-2" {
		t.Errorf("Update() = %+v", updated)
	}

	toggled, err := store.ToggleStatus(ctx, hb.ID)
	if err != nil || toggled.IsActive {
		t.Errorf("ToggleStatus() = %+v, %v", toggled, err)
	}

	if err := store.Delete(ctx, hb.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, hb.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Delete() error = %v, want ErrNoDocuments", err)
	}
}
