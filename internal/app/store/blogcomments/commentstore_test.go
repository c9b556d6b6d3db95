package commentstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func approve(t *testing.T, store *Store, id primitive.ObjectID) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := store.ToggleApproval(ctx, id); err != nil {
		t.Fatalf("ToggleApproval() error = %v", err)
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bc, err := store.Create(ctx, CreateInput{
		BlogID:  primitive.NewObjectID(),
		Name:    "Ada",
		Email:   "  Ada@Example.COM ",
		Comment: "Great post",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if bc.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased", bc.Email)
	}
	if bc.IsApproved {
		t.Error("new comments should await approval")
	}
	if bc.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", bc.ParentID)
	}
}

func TestStore_Thread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	blogID := primitive.NewObjectID()
	older, _ := store.Create(ctx, CreateInput{BlogID: blogID, Name: "a", Email: "a@x.io", Comment: "older"})
	time.Sleep(5 * time.Millisecond)
	newer, _ := store.Create(ctx, CreateInput{BlogID: blogID, Name: "b", Email: "b@x.io", Comment: "newer"})
	_, _ = store.Create(ctx, CreateInput{BlogID: blogID, Name: "c", Email: "c@x.io", Comment: "pending"})

	r1, _ := store.Create(ctx, CreateInput{BlogID: blogID, ParentID: &older.ID, Name: "d", Email: "d@x.io", Comment: "reply 1"})
	time.Sleep(5 * time.Millisecond)
	r2, _ := store.Create(ctx, CreateInput{BlogID: blogID, ParentID: &older.ID, Name: "e", Email: "e@x.io", Comment: "reply 2"})
	_, _ = store.Create(ctx, CreateInput{BlogID: blogID, ParentID: &older.ID, Name: "f", Email: "f@x.io", Comment: "hidden"})

	for _, id := range []primitive.ObjectID{older.ID, newer.ID, r1.ID, r2.ID} {
		approve(t, store, id)
	}

	thread, err := store.Thread(ctx, blogID)
	if err != nil {
		t.Fatalf("Thread() error = %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("Thread() len = %d, want 2", len(thread))
	}
	if thread[0].Comment != "newer" || thread[1].Comment != "older" {
		t.Errorf("top-level order = %q, %q; want newest first", thread[0].Comment, thread[1].Comment)
	}
	if len(thread[0].Replies) != 0 {
		t.Errorf("newer replies = %d, want 0", len(thread[0].Replies))
	}
	replies := thread[1].Replies
	if len(replies) != 2 || replies[0].Comment != "reply 1" || replies[1].Comment != "reply 2" {
		t.Errorf("replies = %+v, want approved replies oldest first", replies)
	}

	empty, err := store.Thread(ctx, primitive.NewObjectID())
	if err != nil || len(empty) != 0 {
		t.Errorf("Thread(unknown) = %v, %v", empty, err)
	}
}

func TestStore_AdminList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	blogID := primitive.NewObjectID()
	if _, err := db.Collection(blogsCollection).InsertOne(ctx, bson.M{"_id": blogID, "title": "Post", "slug": "post"}); err != nil {
		t.Fatalf("insert blog: %v", err)
	}
	first, _ := store.Create(ctx, CreateInput{BlogID: blogID, Name: "a", Email: "a@x.io", Comment: "one"})
	if _, err := store.Create(ctx, CreateInput{BlogID: blogID, Name: "b", Email: "b@x.io", Comment: "two"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Create(ctx, CreateInput{BlogID: primitive.NewObjectID(), Name: "c", Email: "c@x.io", Comment: "orphan"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	approve(t, store, first.ID)

	all, pg, err := store.AdminList(ctx, AdminFilter{Page: storeutil.NewPage(1, 0, DefaultAdminLimit)})
	if err != nil {
		t.Fatalf("AdminList() error = %v", err)
	}
	if len(all) != 3 || pg.TotalItems != 3 || pg.ItemsPerPage != DefaultAdminLimit {
		t.Errorf("AdminList() len = %d, pagination = %+v", len(all), pg)
	}

	approved := true
	got, _, err := store.AdminList(ctx, AdminFilter{BlogID: &blogID, IsApproved: &approved, Page: storeutil.NewPage(1, 10, 10)})
	if err != nil {
		t.Fatalf("AdminList() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("AdminList(filtered) len = %d, want 1", len(got))
	}
	if got[0].Blog == nil || got[0].Blog.Title != "Post" || got[0].Blog.Slug != "post" {
		t.Errorf("Blog = %+v, want summary of Post", got[0].Blog)
	}
}

func TestStore_DeleteCascadesOneLevel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	blogID := primitive.NewObjectID()
	parent, _ := store.Create(ctx, CreateInput{BlogID: blogID, Name: "a", Email: "a@x.io", Comment: "parent"})
	child, _ := store.Create(ctx, CreateInput{BlogID: blogID, ParentID: &parent.ID, Name: "b", Email: "b@x.io", Comment: "child"})
	grandchild, _ := store.Create(ctx, CreateInput{BlogID: blogID, ParentID: &child.ID, Name: "c", Email: "c@x.io", Comment: "grandchild"})

	n, err := store.Delete(ctx, parent.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Delete() removed %d, want 2", n)
	}
	if _, err := store.GetByID(ctx, grandchild.ID); err != nil {
		t.Errorf("grandchild should survive, GetByID() error = %v", err)
	}
	if _, err := store.Delete(ctx, parent.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Delete() error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_ToggleApproval_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.ToggleApproval(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("ToggleApproval(unknown) error = %v, want ErrNoDocuments", err)
	}
}
