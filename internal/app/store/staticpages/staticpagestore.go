// internal/app/store/staticpages/staticpagestore.go
package staticpagestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the static pages collection.
const CollectionName = "static_pages"

// ErrSlugTaken is returned when another page already uses the slug.
var ErrSlugTaken = apperr.Validation("A page with this slug already exists")

// Store provides access to the static_pages collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new static page store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Search   string
	PageType string
	IsActive *bool
	Page     storeutil.Page
}

// List returns one page of static pages, newest first. Search matches title or slug.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.StaticPage, storeutil.Pagination, error) {
	filter := storeutil.ActiveFilter(bson.M{}, f.IsActive)
	if f.Search != "" {
		re := storeutil.SearchRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"slug": re},
		}
	}
	if f.PageType != "" {
		filter["page_type"] = f.PageType
	}

	out := []models.StaticPage{}
	pg, err := storeutil.FindPage(ctx, s.c, filter, f.Page, newestFirst, &out)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}
	return out, pg, nil
}

// ActiveLinks returns title, slug and page type of every active page, newest first.
func (s *Store) ActiveLinks(ctx context.Context) ([]models.StaticPageLink, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetProjection(bson.M{"title": 1, "slug": 1, "page_type": 1})
	cur, err := s.c.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.StaticPageLink{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the page with id, active or not.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.StaticPage, error) {
	var p models.StaticPage
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns the active page with slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.StaticPage, error) {
	var p models.StaticPage
	filter := bson.M{"slug": normalize.PageSlug(slug), "is_active": true}
	if err := s.c.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FirstActiveByType returns the oldest active page of pageType, or nil when
// there is none.
func (s *Store) FirstActiveByType(ctx context.Context, pageType string) (*models.StaticPageLink, error) {
	var link models.StaticPageLink
	opts := options.FindOne().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetProjection(bson.M{"title": 1, "slug": 1, "page_type": 1})
	err := s.c.FindOne(ctx, bson.M{"page_type": pageType, "is_active": true}, opts).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// SlugTaken reports whether another page uses slug. excludeID may be zero.
func (s *Store) SlugTaken(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateInput contains the input for creating a static page.
type CreateInput struct {
	Title           string
	Slug            string
	Content         string
	PageType        string
	IsActive        *bool
	MetaTitle       string
	MetaDescription string
}

// Create inserts a new page. A slug already in use returns ErrSlugTaken.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.StaticPage, error) {
	slug := normalize.PageSlug(in.Slug)
	taken, err := s.SlugTaken(ctx, slug, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now().UTC()
	p := models.StaticPage{
		ID:              primitive.NewObjectID(),
		Title:           in.Title,
		Slug:            slug,
		Content:         in.Content,
		PageType:        storeutil.Default(in.PageType, models.PageTypeOther),
		IsActive:        active,
		MetaTitle:       storeutil.Default(in.MetaTitle, in.Title),
		MetaDescription: storeutil.Default(in.MetaDescription, in.Title),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if storeutil.IsDuplicateKey(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &p, nil
}

// UpdateInput holds the fields to change; nil fields are left alone.
type UpdateInput struct {
	Title           *string
	Slug            *string
	Content         *string
	PageType        *string
	IsActive        *bool
	MetaTitle       *string
	MetaDescription *string
}

// Update applies in to the page with id. A slug used by another page
// returns ErrSlugTaken.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.StaticPage, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	if in.Slug != nil && *in.Slug != "" {
		slug := normalize.PageSlug(*in.Slug)
		taken, err := s.SlugTaken(ctx, slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
		set["slug"] = slug
	}

	fields := []struct {
		key string
		val *string
	}{
		{"title", in.Title},
		{"content", in.Content},
		{"page_type", in.PageType},
		{"meta_title", in.MetaTitle},
		{"meta_description", in.MetaDescription},
	}
	for _, f := range fields {
		if f.val != nil {
			set[f.key] = *f.val
		}
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}

	var p models.StaticPage
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if storeutil.IsDuplicateKey(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the page with id.
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
