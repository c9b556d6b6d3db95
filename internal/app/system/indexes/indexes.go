// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by stores, validators and schema bootstrap.
const (
	BannerCollections = "banner_collections"
	BannerCountdowns  = "banner_countdowns"
	HeroBanners       = "hero_banners"
	Blogs             = "blogs"
	BlogComments      = "blog_comments"
	StaticPages       = "static_pages"
	FooterConfigs     = "footer_configs"
	HeaderMenuConfigs = "header_menu_configs"
	Categories        = "categories"
	APILedger         = "api_ledger"
	APIStats          = "api_stats"
)

// EnsureAll reconciles the indexes of every CMS collection. Each set is
// idempotent; failures are aggregated so startup reports all of them.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name   string
		ensure func(context.Context, *mongo.Database) error
	}{
		{BannerCollections, ensureOrdered(BannerCollections)},
		{BannerCountdowns, ensureBannerCountdowns},
		{HeroBanners, ensureOrdered(HeroBanners)},
		{Blogs, ensureBlogs},
		{BlogComments, ensureBlogComments},
		{StaticPages, ensureStaticPages},
		{FooterConfigs, ensureSingleton(FooterConfigs)},
		{HeaderMenuConfigs, ensureSingleton(HeaderMenuConfigs)},
		{Categories, ensureCategories},
		{APILedger, ensureAPILedger},
		{APIStats, ensureAPIStats},
	}
	for _, set := range sets {
		if err := set.ensure(ctx, db); err != nil {
			problems = append(problems, set.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// existingIndex is the part of listIndexes output used for reconciliation.
type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
}

// keySig renders a key pattern as "field:dir, ..." so indexes can be matched
// by keys regardless of name.
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isDuplicateKeyErr(err error) bool {
	return mongo.IsDuplicateKeyError(err) || strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}

// ensureIndexSet makes coll carry every index in want. An index with the same
// keys but a different uniqueness is dropped and rebuilt; anything else that
// already matches by keys is reused under its existing name.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	// listIndexes fails with NamespaceNotFound before the collection exists;
	// CreateOne below creates it.
	have := map[string]existingIndex{}
	if cur, err := coll.Indexes().List(ctx); err == nil {
		var listed []existingIndex
		if err := cur.All(ctx, &listed); err != nil {
			return fmt.Errorf("decode indexes: %w", err)
		}
		for _, idx := range listed {
			have[keySig(idx.Key)] = idx
		}
	}

	var errs []error
	for _, m := range want {
		sig := keySig(m.Keys.(bson.D))
		unique := m.Options != nil && m.Options.Unique != nil && *m.Options.Unique
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		if ex, ok := have[sig]; ok {
			if ex.Unique == unique {
				log.Debug("index present", zap.String("name", ex.Name))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Errorf("%s(%s): drop for rebuild: %w", coll.Name(), sig, err))
				continue
			}
			log.Info("dropped index for rebuild", zap.String("name", ex.Name))
		}

		start := time.Now()
		name, err := coll.Indexes().CreateOne(ctx, m)
		switch {
		case err == nil:
			log.Info("index created", zap.String("name", name), zap.Duration("took", time.Since(start)))
		case unique && isDuplicateKeyErr(err):
			errs = append(errs, fmt.Errorf("%s(%s): duplicates block unique index", coll.Name(), sig))
		default:
			log.Warn("index create failed", zap.Error(err))
			errs = append(errs, fmt.Errorf("%s(%s): %w", coll.Name(), sig, err))
		}
	}
	return errors.Join(errs...)
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

// ensureOrdered covers the banner-like collections listed by order and
// filtered by is_active.
func ensureOrdered(name string) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		return ensureIndexSet(ctx, db.Collection(name), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_" + name + "_order_created"),
			},
			{
				Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}},
				Options: options.Index().SetName("idx_" + name + "_active_order"),
			},
		})
	}
}

func ensureBannerCountdowns(ctx context.Context, db *mongo.Database) error {
	if err := ensureOrdered(BannerCountdowns)(ctx, db); err != nil {
		return err
	}
	return ensureIndexSet(ctx, db.Collection(BannerCountdowns), []mongo.IndexModel{
		// Public lookup: active and not yet expired
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "end_date", Value: 1}},
			Options: options.Index().SetName("idx_banner_countdowns_active_end"),
		},
	})
}

func ensureBlogs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(Blogs), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_blogs_slug"),
		},
		// Admin list and public latest: newest published first
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "published_at", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_blogs_active_published"),
		},
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetName("idx_blogs_title"),
		},
	})
}

func ensureBlogComments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(BlogComments), []mongo.IndexModel{
		// Public thread: approved top-level comments of one blog
		{
			Keys: bson.D{
				{Key: "blog_id", Value: 1},
				{Key: "parent_id", Value: 1},
				{Key: "is_approved", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_blog_comments_thread"),
		},
		// Replies and cascading delete
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_blog_comments_parent"),
		},
		// Moderation queue
		{
			Keys:    bson.D{{Key: "is_approved", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_blog_comments_approved_created"),
		},
	})
}

func ensureStaticPages(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(StaticPages), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_static_pages_slug"),
		},
		// Footer link detection: first active page of a type
		{
			Keys: bson.D{
				{Key: "page_type", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_static_pages_type_active_created"),
		},
	})
}

// ensureSingleton keeps a configuration collection to one document.
func ensureSingleton(name string) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		return ensureIndexSet(ctx, db.Collection(name), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "singleton", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_" + name + "_singleton"),
			},
		})
	}
}

// Categories belong to the catalog service and keep its field names.
func ensureCategories(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(Categories), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "parent", Value: 1},
				{Key: "isActive", Value: 1},
				{Key: "sortOrder", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetName("idx_categories_parent_active_sort"),
		},
	})
}

func ensureAPILedger(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(APILedger), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_api_ledger_started"),
		},
		{
			Keys:    bson.D{{Key: "status_code", Value: 1}, {Key: "started_at", Value: -1}},
			Options: options.Index().SetName("idx_api_ledger_status_started"),
		},
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("idx_api_ledger_request_id"),
		},
	})
}

func ensureAPIStats(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(APIStats), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "bucket", Value: 1},
				{Key: "module", Value: 1},
				{Key: "bucket_duration", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_api_stats_bucket_module_duration"),
		},
		{
			Keys:    bson.D{{Key: "module", Value: 1}, {Key: "bucket", Value: 1}},
			Options: options.Index().SetName("idx_api_stats_module_bucket"),
		},
	})
}
