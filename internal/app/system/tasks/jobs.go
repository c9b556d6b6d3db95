package tasks

import (
	"context"
	"time"

	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	ledgerstore "github.com/dalemusser/stratacms/internal/app/store/ledger"
	"go.uber.org/zap"
)

// DefaultLedgerRetention is how long failed-request entries are kept.
const DefaultLedgerRetention = 30 * 24 * time.Hour

// LedgerRetentionJob deletes ledger entries older than retention.
func LedgerRetentionJob(store *ledgerstore.Store, retention time.Duration, logger *zap.Logger) Job {
	if retention <= 0 {
		retention = DefaultLedgerRetention
	}
	return Job{
		Name:     "ledger-retention",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := store.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned request ledger",
					zap.Int64("deleted", deleted),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}

// DefaultStatsRetention is how long API stats buckets are kept.
const DefaultStatsRetention = 90 * 24 * time.Hour

// StatsRetentionJob deletes API stats buckets older than retention.
func StatsRetentionJob(store *apistatsstore.Store, retention time.Duration, logger *zap.Logger) Job {
	if retention <= 0 {
		retention = DefaultStatsRetention
	}
	return Job{
		Name:     "api-stats-retention",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := store.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned API stats",
					zap.Int64("deleted", deleted),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
