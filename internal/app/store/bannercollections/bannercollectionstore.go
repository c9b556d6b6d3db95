// internal/app/store/bannercollections/bannercollectionstore.go
package bannercollectionstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the banner collections collection.
const CollectionName = "banner_collections"

// Store provides access to the banner_collections collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new banner collection store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var defaultSort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}

// ListFilter narrows the admin listing.
type ListFilter struct {
	IsActive *bool
	Sort     string // "order" sorts by order only
	Page     storeutil.Page
}

// List returns one page of banner collections.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.BannerCollection, storeutil.Pagination, error) {
	sort := defaultSort
	if f.Sort == "order" {
		sort = bson.D{{Key: "order", Value: 1}}
	}
	out := []models.BannerCollection{}
	pg, err := storeutil.FindPage(ctx, s.c, storeutil.ActiveFilter(bson.M{}, f.IsActive), f.Page, sort, &out)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}
	return out, pg, nil
}

// Active returns every active banner collection in display order.
func (s *Store) Active(ctx context.Context) ([]models.BannerCollection, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(defaultSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.BannerCollection{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the banner collection with id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BannerCollection, error) {
	var bc models.BannerCollection
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// CreateInput contains the input for creating a banner collection.
type CreateInput struct {
	Image       string
	Title       string
	Description string
	ButtonText  string
	ButtonLink  string
	Style       string
	IsActive    *bool
	Order       int // <= 0 appends after the current last item
}

// Create inserts a banner collection, filling defaults.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.BannerCollection, error) {
	order := in.Order
	if order <= 0 {
		next, err := storeutil.NextOrder(ctx, s.c)
		if err != nil {
			return nil, err
		}
		order = next
	}

	now := time.Now().UTC()
	bc := models.BannerCollection{
		ID:          primitive.NewObjectID(),
		Image:       in.Image,
		Title:       in.Title,
		Description: in.Description,
		ButtonText:  storeutil.Default(in.ButtonText, models.DefaultButtonText),
		ButtonLink:  storeutil.Default(in.ButtonLink, models.DefaultCollectionButtonLink),
		Style:       storeutil.Default(in.Style, models.BannerStyleDefault),
		IsActive:    in.IsActive == nil || *in.IsActive,
		Order:       order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// UpdateInput holds the fields to change; nil fields are left alone.
type UpdateInput struct {
	Image       *string
	Title       *string
	Description *string
	ButtonText  *string
	ButtonLink  *string
	Style       *string
	IsActive    *bool
	Order       *int
}

// Update applies in and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.BannerCollection, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.ButtonText != nil {
		set["button_text"] = *in.ButtonText
	}
	if in.ButtonLink != nil {
		set["button_link"] = *in.ButtonLink
	}
	if in.Style != nil {
		set["style"] = *in.Style
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}

	var bc models.BannerCollection
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// Delete removes the banner collection with id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// ToggleStatus flips is_active and returns the updated document.
func (s *Store) ToggleStatus(ctx context.Context, id primitive.ObjectID) (*models.BannerCollection, error) {
	var bc models.BannerCollection
	if err := storeutil.ToggleActive(ctx, s.c, id, &bc); err != nil {
		return nil, err
	}
	return &bc, nil
}
