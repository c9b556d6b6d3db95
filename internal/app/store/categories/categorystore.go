// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"

	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the catalog categories collection. This service only reads it.
const CollectionName = "categories"

// Store provides read access to catalog categories.
type Store struct {
	c *mongo.Collection
}

// New creates a new category store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var menuSort = bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}}

// ActiveByIDs returns the active categories among ids, keyed by id.
// Unknown and inactive ids are absent from the result.
func (s *Store) ActiveByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	out := make(map[primitive.ObjectID]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cats []models.Category
	if err := s.find(ctx, bson.M{"_id": bson.M{"$in": ids}, "isActive": true}, &cats); err != nil {
		return nil, err
	}
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

// ByIDs returns the categories among ids regardless of status, keyed by id.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	out := make(map[primitive.ObjectID]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cats []models.Category
	if err := s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, &cats); err != nil {
		return nil, err
	}
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

// ActiveChildren returns the active children of every parent, grouped by
// parent id and sorted by sortOrder then name.
func (s *Store) ActiveChildren(ctx context.Context, parents []primitive.ObjectID) (map[primitive.ObjectID][]models.Category, error) {
	out := make(map[primitive.ObjectID][]models.Category, len(parents))
	if len(parents) == 0 {
		return out, nil
	}
	var cats []models.Category
	if err := s.find(ctx, bson.M{"parent": bson.M{"$in": parents}, "isActive": true}, &cats); err != nil {
		return nil, err
	}
	for _, c := range cats {
		out[*c.Parent] = append(out[*c.Parent], c)
	}
	return out, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, out *[]models.Category) error {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(menuSort))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
