// internal/app/store/footer/footerstore.go
package footerstore

import (
	"context"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the footer configuration collection.
const CollectionName = "footer_configs"

// ErrTooManyColumns is returned when an update carries more columns than the layout supports.
var ErrTooManyColumns = apperr.Validationf("Footer supports at most %d columns", models.MaxFooterColumns)

// Store provides access to the singleton footer configuration.
type Store struct {
	c *mongo.Collection
}

// New creates a new footer store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Get returns the footer configuration, creating the default one on first use.
func (s *Store) Get(ctx context.Context) (*models.FooterConfig, error) {
	var fc models.FooterConfig
	if err := storeutil.GetOrCreateSingleton(ctx, s.c, models.DefaultFooterConfig(), &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// UpdateInput replaces whichever sections are non-nil.
type UpdateInput struct {
	DynamicColumns *[]models.FooterColumn
	BottomSection  *models.FooterBottom
}

// Update replaces the provided sections and returns the stored configuration.
func (s *Store) Update(ctx context.Context, in UpdateInput) (*models.FooterConfig, error) {
	set := bson.M{}
	if in.DynamicColumns != nil {
		cols := *in.DynamicColumns
		if len(cols) > models.MaxFooterColumns {
			return nil, ErrTooManyColumns
		}
		if cols == nil {
			cols = []models.FooterColumn{}
		}
		for i := range cols {
			if cols[i].Items == nil {
				cols[i].Items = []models.FooterItem{}
			}
		}
		set["dynamic_columns"] = cols
	}
	if in.BottomSection != nil {
		set["bottom_section"] = *in.BottomSection
	}

	var fc models.FooterConfig
	if err := storeutil.UpsertSingleton(ctx, s.c, set, models.DefaultFooterConfig(), &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}
