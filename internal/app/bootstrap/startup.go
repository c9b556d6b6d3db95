// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	ledgerstore "github.com/dalemusser/stratacms/internal/app/store/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	if appCfg.APILedgerEnabled {
		store := ledgerstore.New(deps.MongoDatabase)
		taskRunner.Register(tasks.LedgerRetentionJob(store, appCfg.APILedgerRetention, logger))
	}

	if appCfg.APIStatsEnabled {
		store := apistatsstore.New(deps.MongoDatabase)
		taskRunner.Register(tasks.StatsRetentionJob(store, appCfg.APIStatsRetention, logger))
	}

	taskRunner.Start()
}
