// internal/app/store/headermenu/headermenustore.go
package headermenustore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the header menu configuration collection.
const CollectionName = "header_menu_configs"

// Store provides access to the singleton header menu configuration.
type Store struct {
	c *mongo.Collection
}

// New creates a new header menu store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Get returns the header menu configuration, creating the default one on first use.
func (s *Store) Get(ctx context.Context) (*models.HeaderMenuConfig, error) {
	var hm models.HeaderMenuConfig
	if err := storeutil.GetOrCreateSingleton(ctx, s.c, models.DefaultHeaderMenuConfig(), &hm); err != nil {
		return nil, err
	}
	return &hm, nil
}

// UpdateInput replaces whichever fields are non-nil.
type UpdateInput struct {
	MenuType        *string
	StaticMenuItems *[]models.StaticMenuItem
	MenuCategories  *[]models.MenuCategoryRef
	ManualMenuItems *[]models.ManualMenuItem
	ShowShopMenu    *bool
}

// Update replaces the provided fields and returns the stored configuration.
func (s *Store) Update(ctx context.Context, in UpdateInput) (*models.HeaderMenuConfig, error) {
	set := bson.M{}
	if in.MenuType != nil {
		set["menu_type"] = *in.MenuType
	}
	if in.StaticMenuItems != nil {
		items := *in.StaticMenuItems
		if items == nil {
			items = []models.StaticMenuItem{}
		}
		set["static_menu_items"] = items
	}
	if in.MenuCategories != nil {
		set["menu_categories"] = nonNilRefs(*in.MenuCategories)
	}
	if in.ManualMenuItems != nil {
		items := *in.ManualMenuItems
		if items == nil {
			items = []models.ManualMenuItem{}
		}
		for i := range items {
			if items[i].Submenus == nil {
				items[i].Submenus = []models.MenuSubItem{}
			}
		}
		set["manual_menu_items"] = items
	}
	if in.ShowShopMenu != nil {
		set["show_shop_menu"] = *in.ShowShopMenu
	}

	var hm models.HeaderMenuConfig
	if err := storeutil.UpsertSingleton(ctx, s.c, set, models.DefaultHeaderMenuConfig(), &hm); err != nil {
		return nil, err
	}
	return &hm, nil
}

// UpdateOrder replaces the category references of an existing configuration.
// It returns storeutil.ErrNotFound when no configuration has been created yet.
func (s *Store) UpdateOrder(ctx context.Context, refs []models.MenuCategoryRef) (*models.HeaderMenuConfig, error) {
	update := bson.M{"$set": bson.M{
		"menu_categories": nonNilRefs(refs),
		"updated_at":      time.Now().UTC(),
	}}
	var hm models.HeaderMenuConfig
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, storeutil.SingletonFilter, update, opts).Decode(&hm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storeutil.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hm, nil
}

func nonNilRefs(refs []models.MenuCategoryRef) []models.MenuCategoryRef {
	if refs == nil {
		return []models.MenuCategoryRef{}
	}
	return refs
}
