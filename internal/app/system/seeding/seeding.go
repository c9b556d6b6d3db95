// Package seeding creates the site-configuration singletons on first boot.
package seeding

import (
	"context"
	"fmt"

	footerstore "github.com/dalemusser/stratacms/internal/app/store/footer"
	headermenustore "github.com/dalemusser/stratacms/internal/app/store/headermenu"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll makes sure the footer and header-menu documents exist. Both stores
// create their defaults on first read, so running this repeatedly is harmless.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	footer, err := footerstore.New(db).Get(ctx)
	if err != nil {
		return fmt.Errorf("seed footer config: %w", err)
	}
	logger.Debug("footer config ready",
		zap.String("id", footer.ID.Hex()),
		zap.Int("columns", len(footer.DynamicColumns)))

	menu, err := headermenustore.New(db).Get(ctx)
	if err != nil {
		return fmt.Errorf("seed header menu config: %w", err)
	}
	logger.Debug("header menu config ready",
		zap.String("id", menu.ID.Hex()),
		zap.String("menu_type", menu.MenuType))

	return nil
}
