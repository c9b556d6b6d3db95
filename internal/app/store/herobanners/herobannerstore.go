// internal/app/store/herobanners/herobannerstore.go
package herobannerstore

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

// CollectionName is the hero banners collection.
const CollectionName = "hero_banners"

// Store provides access to the hero_banners collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new hero banner store.
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

// List returns one page of hero banners, inactive ones included.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.HeroBanner, storeutil.Pagination, error) {
	sort := defaultSort
	if f.Sort == "order" {
		sort = bson.D{{Key: "order", Value: 1}}
	}
	out := []models.HeroBanner{}
	pg, err := storeutil.FindPage(ctx, s.c, storeutil.ActiveFilter(bson.M{}, f.IsActive), f.Page, sort, &out)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}
	return out, pg, nil
}

// Active returns the active slides in display order.
func (s *Store) Active(ctx context.Context) ([]models.HeroBanner, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(defaultSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.HeroBanner{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the hero banner with id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.HeroBanner, error) {
	var hb models.HeroBanner
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&hb); err != nil {
		return nil, err
	}
	return &hb, nil
}

// Create inserts hb, filling defaults, id, order and timestamps.
// Legacy aliases must already be folded into the canonical fields.
func (s *Store) Create(ctx context.Context, hb models.HeroBanner) (*models.HeroBanner, error) {
	if hb.Order <= 0 {
		next, err := storeutil.NextOrder(ctx, s.c)
		if err != nil {
			return nil, err
		}
		hb.Order = next
	}
	now := time.Now().UTC()
	hb.ID = primitive.NewObjectID()
	hb.Alt = storeutil.Default(hb.Alt, models.DefaultHeroAlt)
	hb.BtnText = storeutil.Default(hb.BtnText, models.DefaultHeroButtonText)
	hb.ButtonLink = storeutil.Default(hb.ButtonLink, models.DefaultHeroButtonLink)
	hb.UpdatedBy = hb.CreatedBy
	hb.CreatedAt = now
	hb.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, hb); err != nil {
		return nil, err
	}
	return &hb, nil
}

// UpdateInput holds the fields to change; nil fields are left alone.
type UpdateInput struct {
	ImgSrc             *string
	Alt                *string
	Subheading         *string
	Heading            *string
	BtnText            *string
	ButtonLink         *string
	Description        *string
	BackgroundGradient *string
	Button2Text        *string
	Button2Link        *string
	IsActive           *bool
	Order              *int
	UpdatedBy          string
}

// Update applies in and returns the updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.HeroBanner, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	fields := []struct {
		key string
		val *string
	}{
		{"img_src", in.ImgSrc},
		{"alt", in.Alt},
		{"subheading", in.Subheading},
		{"heading", in.Heading},
		{"btn_text", in.BtnText},
		{"button_link", in.ButtonLink},
		{"description", in.Description},
		{"background_gradient", in.BackgroundGradient},
		{"button2_text", in.Button2Text},
		{"button2_link", in.Button2Link},
	}
	for _, f := range fields {
		if f.val != nil {
			set[f.key] = *f.val
		}
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}
	if in.UpdatedBy != "" {
		set["updated_by"] = in.UpdatedBy
	}

	var hb models.HeroBanner
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&hb); err != nil {
		return nil, err
	}
	return &hb, nil
}

// Delete removes the hero banner with id.
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
func (s *Store) ToggleStatus(ctx context.Context, id primitive.ObjectID) (*models.HeroBanner, error) {
	var hb models.HeroBanner
	if err := storeutil.ToggleActive(ctx, s.c, id, &hb); err != nil {
		return nil, err
	}
	return &hb, nil
}

// OrderUpdate assigns Order to the banner with ID.
type OrderUpdate struct {
	ID    primitive.ObjectID
	Order int
}

// Reorder applies every update in one unordered bulk write and returns how
// many banners matched. Unknown ids are skipped.
func (s *Store) Reorder(ctx context.Context, updates []OrderUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": u.ID}).
			SetUpdate(bson.M{"$set": bson.M{"order": u.Order, "updated_at": now}}))
	}
	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
