// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/indexes"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/dalemusser/stratacms/internal/app/system/seeding"
	"github.com/dalemusser/stratacms/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and, when redis_url is set, Redis.
//
// A Redis failure aborts startup: an operator who configured a cache
// expects it to be used.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisURL == "" {
		logger.Info("response cache disabled (no redis_url)")
		return deps, nil
	}

	rdb, err := respcache.Connect(ctx, appCfg.RedisURL)
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return DBDeps{}, fmt.Errorf("connect redis: %w", err)
	}
	deps.Redis = rdb
	logger.Info("connected to Redis", zap.Duration("cache_ttl", appCfg.CacheTTL))

	return deps, nil
}

// EnsureSchema creates collections and validators, then indexes, then the
// footer and header-menu singletons. The steps run in that order so indexes
// land on collections that already carry their validators.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	steps := []struct {
		name string
		run  func() error
	}{
		{"collections and validators", func() error { return validators.EnsureAll(ctx, db, logger) }},
		{"indexes", func() error { return indexes.EnsureAll(ctx, db) }},
		{"site configuration seed", func() error { return seeding.SeedAll(ctx, db, logger) }},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.run(); err != nil {
			logger.Error("schema step failed", zap.String("step", step.name), zap.Error(err))
			return fmt.Errorf("%s: %w", step.name, err)
		}
		logger.Info("schema step done", zap.String("step", step.name), zap.Duration("took", time.Since(start)))
	}
	return nil
}
