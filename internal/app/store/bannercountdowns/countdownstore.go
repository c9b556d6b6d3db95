// internal/app/store/bannercountdowns/countdownstore.go
package countdownstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the banner countdowns collection.
const CollectionName = "banner_countdowns"

// Store provides access to the banner_countdowns collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new banner countdown store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var defaultSort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}

// ListFilter narrows the admin listing.
type ListFilter struct {
	IsActive *bool
	Sort     string
	Page     storeutil.Page
}

// List returns one page of countdowns, expired ones included.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.BannerCountdown, storeutil.Pagination, error) {
	sort := defaultSort
	if f.Sort == "order" {
		sort = bson.D{{Key: "order", Value: 1}}
	}
	out := []models.BannerCountdown{}
	pg, err := storeutil.FindPage(ctx, s.c, storeutil.ActiveFilter(bson.M{}, f.IsActive), f.Page, sort, &out)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}
	return out, pg, nil
}

// Active returns the first active countdown whose end date is after now,
// or nil when none is running.
func (s *Store) Active(ctx context.Context, now time.Time) (*models.BannerCountdown, error) {
	filter := bson.M{
		"is_active": true,
		"end_date":  bson.M{"$gt": now},
	}
	var bc models.BannerCountdown
	err := s.c.FindOne(ctx, filter, options.FindOne().SetSort(defaultSort)).Decode(&bc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bc, nil
}

// GetByID returns the countdown with id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BannerCountdown, error) {
	var bc models.BannerCountdown
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// CreateInput contains the input for creating a countdown. EndDate must
// already be validated as future.
type CreateInput struct {
	Title       string
	Description string
	Image       string
	EndDate     time.Time
	ButtonText  string
	ButtonLink  string
	IsActive    *bool
	Order       int
}

// Create inserts a countdown, filling defaults.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.BannerCountdown, error) {
	order := in.Order
	if order <= 0 {
		next, err := storeutil.NextOrder(ctx, s.c)
		if err != nil {
			return nil, err
		}
		order = next
	}

	now := time.Now().UTC()
	bc := models.BannerCountdown{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		EndDate:     in.EndDate.UTC(),
		ButtonText:  storeutil.Default(in.ButtonText, models.DefaultButtonText),
		ButtonLink:  storeutil.Default(in.ButtonLink, models.DefaultCountdownButtonLink),
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
	Title       *string
	Description *string
	Image       *string
	EndDate     *time.Time
	ButtonText  *string
	ButtonLink  *string
	IsActive    *bool
	Order       *int
}

// Update applies in and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.BannerCountdown, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Image != nil {
		set["image"] = *in.Image
	}
	if in.EndDate != nil {
		set["end_date"] = in.EndDate.UTC()
	}
	if in.ButtonText != nil {
		set["button_text"] = *in.ButtonText
	}
	if in.ButtonLink != nil {
		set["button_link"] = *in.ButtonLink
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}

	var bc models.BannerCountdown
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// Delete removes the countdown with id.
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
func (s *Store) ToggleStatus(ctx context.Context, id primitive.ObjectID) (*models.BannerCountdown, error) {
	var bc models.BannerCountdown
	if err := storeutil.ToggleActive(ctx, s.c, id, &bc); err != nil {
		return nil, err
	}
	return &bc, nil
}
