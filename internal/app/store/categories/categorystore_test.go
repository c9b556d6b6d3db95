package categorystore

import (
	"testing"

	"github.com/dalemusser/stratacms/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Reads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root := primitive.NewObjectID()
	hidden := primitive.NewObjectID()
	docs := []any{
		bson.M{"_id": root, "name": "Women", "slug": "women", "isActive": true, "sortOrder": 0},
		bson.M{"_id": hidden, "name": "Hidden", "slug": "hidden", "isActive": false, "sortOrder": 0},
		bson.M{"_id": primitive.NewObjectID(), "name": "Shoes", "slug": "shoes", "parent": root, "isActive": true, "sortOrder": 2},
		bson.M{"_id": primitive.NewObjectID(), "name": "Bags", "slug": "bags", "parent": root, "isActive": true, "sortOrder": 1},
		bson.M{"_id": primitive.NewObjectID(), "name": "Belts", "slug": "belts", "parent": root, "isActive": true, "sortOrder": 1},
		bson.M{"_id": primitive.NewObjectID(), "name": "Old", "slug": "old", "parent": root, "isActive": false, "sortOrder": 0},
	}
	if _, err := db.Collection(CollectionName).InsertMany(ctx, docs); err != nil {
		t.Fatalf("InsertMany() error = %v", err)
	}

	active, err := store.ActiveByIDs(ctx, []primitive.ObjectID{root, hidden, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("ActiveByIDs() error = %v", err)
	}
	if len(active) != 1 || active[root].Slug != "women" {
		t.Errorf("ActiveByIDs() = %+v", active)
	}

	all, err := store.ByIDs(ctx, []primitive.ObjectID{root, hidden})
	if err != nil || len(all) != 2 {
		t.Errorf("ByIDs() = %d, %v, want 2", len(all), err)
	}

	children, err := store.ActiveChildren(ctx, []primitive.ObjectID{root})
	if err != nil {
		t.Fatalf("ActiveChildren() error = %v", err)
	}
	got := children[root]
	want := []string{"Bags", "Belts", "Shoes"}
	if len(got) != len(want) {
		t.Fatalf("children = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("children[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}
