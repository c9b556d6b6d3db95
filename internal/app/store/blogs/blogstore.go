// internal/app/store/blogs/blogstore.go
package blogstore

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the blogs collection.
const CollectionName = "blogs"

// DefaultLatestLimit is the number of posts Latest returns when no limit is given.
const DefaultLatestLimit = 3

// fallbackSlug is used when a title has no characters a slug can keep.
const fallbackSlug = "post"

// Store provides access to the blogs collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new blog store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

var newestFirst = bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}

// ListFilter narrows the admin listing.
type ListFilter struct {
	IsActive *bool
	Search   string
	Sort     string // "title" or "date"; anything else is newest first
	Page     storeutil.Page
}

// List returns one page of blogs. Search matches title or description.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Blog, storeutil.Pagination, error) {
	filter := storeutil.ActiveFilter(bson.M{}, f.IsActive)
	if f.Search != "" {
		re := storeutil.SearchRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}

	sort := newestFirst
	switch f.Sort {
	case "title":
		sort = bson.D{{Key: "title", Value: 1}}
	case "date":
		sort = bson.D{{Key: "published_at", Value: -1}}
	}

	out := []models.Blog{}
	pg, err := storeutil.FindPage(ctx, s.c, filter, f.Page, sort, &out)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}
	return out, pg, nil
}

// GetByID returns the blog with id, active or not.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBySlug returns the active blog with slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOne(ctx, bson.M{"slug": slug, "is_active": true}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SlugTaken reports whether another blog uses slug. excludeID may be zero.
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

// uniqueSlug normalizes slug and appends -<unix millis> when it is already taken.
func (s *Store) uniqueSlug(ctx context.Context, slug string, excludeID primitive.ObjectID) (string, error) {
	slug = normalize.Slugify(slug)
	if slug == "" {
		slug = fallbackSlug
	}
	taken, err := s.SlugTaken(ctx, slug, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		slug = slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return slug, nil
}

// CreateInput contains the input for creating a blog.
type CreateInput struct {
	Title           string
	Description     string
	Content         string
	Image           string
	Author          string
	Slug            string // derived from Title when empty
	IsActive        *bool
	PublishedAt     *time.Time
	MetaTitle       string
	MetaDescription string
}

// Create inserts a new blog with a unique slug.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Blog, error) {
	source := in.Slug
	if source == "" {
		source = in.Title
	}
	slug, err := s.uniqueSlug(ctx, source, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	published := now
	if in.PublishedAt != nil {
		published = in.PublishedAt.UTC()
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	b := models.Blog{
		ID:              primitive.NewObjectID(),
		Title:           in.Title,
		Description:     in.Description,
		Content:         in.Content,
		Image:           in.Image,
		Author:          storeutil.Default(in.Author, models.DefaultBlogAuthor),
		Slug:            slug,
		IsActive:        active,
		PublishedAt:     published,
		MetaTitle:       storeutil.Default(in.MetaTitle, in.Title),
		MetaDescription: storeutil.Default(in.MetaDescription, in.Description),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		// Lost a race for the slug; the timestamp suffix makes a retry unique.
		if !storeutil.IsDuplicateKey(err) {
			return nil, err
		}
		b.Slug = slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
		if _, err := s.c.InsertOne(ctx, b); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// UpdateInput holds the fields to change; nil fields are left alone.
// A new Title without a Slug regenerates the slug.
type UpdateInput struct {
	Title           *string
	Description     *string
	Content         *string
	Image           *string
	Author          *string
	Slug            *string
	IsActive        *bool
	PublishedAt     *time.Time
	MetaTitle       *string
	MetaDescription *string
}

// Update applies in to the blog with id and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Blog, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	var slugSource string
	switch {
	case in.Slug != nil && *in.Slug != "":
		slugSource = *in.Slug
	case in.Title != nil && *in.Title != "":
		slugSource = *in.Title
	}
	if slugSource != "" {
		slug, err := s.uniqueSlug(ctx, slugSource, id)
		if err != nil {
			return nil, err
		}
		set["slug"] = slug
	}

	fields := []struct {
		key string
		val *string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"content", in.Content},
		{"image", in.Image},
		{"author", in.Author},
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
	if in.PublishedAt != nil {
		set["published_at"] = in.PublishedAt.UTC()
	}

	var b models.Blog
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes the blog with id. Its comments are left in place.
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
func (s *Store) ToggleStatus(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := storeutil.ToggleActive(ctx, s.c, id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Exists reports whether a blog with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

// Latest returns up to limit active blogs, newest first. With random set it
// returns a window of that size starting at a random offset instead.
func (s *Store) Latest(ctx context.Context, limit int64, random bool) ([]models.Blog, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	if limit > storeutil.MaxLimit {
		limit = storeutil.MaxLimit
	}
	filter := bson.M{"is_active": true}
	opts := options.Find().SetSort(newestFirst).SetLimit(limit)

	if random {
		total, err := s.c.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		if span := total - limit; span > 0 {
			opts.SetSkip(rand.Int64N(span))
		}
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Blog{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
