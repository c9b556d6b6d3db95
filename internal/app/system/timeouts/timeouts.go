// Package timeouts holds the per-operation deadlines used by handlers, stores
// and background jobs. Values are process-wide and set once from config at
// startup.
package timeouts

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config overrides deadlines. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

var ping, short, medium, long atomic.Int64

func init() { Reset() }

// Ping bounds health probes.
func Ping() time.Duration { return time.Duration(ping.Load()) }

// Short bounds single-document reads and writes.
func Short() time.Duration { return time.Duration(short.Load()) }

// Medium bounds paginated lists and menu/footer resolution.
func Medium() time.Duration { return time.Duration(medium.Load()) }

// Long bounds schema bootstrap and background jobs.
func Long() time.Duration { return time.Duration(long.Load()) }

// Configure applies the non-zero values of cfg.
func Configure(cfg Config) {
	for _, o := range []struct {
		v *atomic.Int64
		d time.Duration
	}{{&ping, cfg.Ping}, {&short, cfg.Short}, {&medium, cfg.Medium}, {&long, cfg.Long}} {
		if o.d > 0 {
			o.v.Store(int64(o.d))
		}
	}
}

// Reset restores the defaults.
func Reset() {
	ping.Store(int64(DefaultPing))
	short.Store(int64(DefaultShort))
	medium.Store(int64(DefaultMedium))
	long.Store(int64(DefaultLong))
}

// WithTimeout derives a context bounded by d. Its cancel func logs a warning
// when the deadline, rather than the caller, ended the operation.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", d))
		}
		cancel()
	}
}
