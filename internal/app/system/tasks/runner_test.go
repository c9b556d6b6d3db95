package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	ledgerstore "github.com/dalemusser/stratacms/internal/app/store/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/tasks"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.uber.org/zap"
)

func TestRunner_StartAndStop(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var runs atomic.Int32
	runner.Register(tasks.Job{
		Name:     "tick",
		Interval: 20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	runner.Start()
	time.Sleep(70 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if runs.Load() < 2 {
		t.Errorf("job ran %d times, want at least 2", runs.Load())
	}
}

func TestRunner_SkipsJobWithoutInterval(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var runs atomic.Int32
	runner.Register(tasks.Job{
		Name: "never",
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	runner.Start()
	time.Sleep(30 * time.Millisecond)
	if err := runner.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if runs.Load() != 0 {
		t.Errorf("job without interval ran %d times", runs.Load())
	}
}

func TestRunner_StopTimesOut(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	release := make(chan struct{})
	defer close(release)
	runner.Register(tasks.Job{
		Name:     "stuck",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			<-release
			return nil
		},
	})
	runner.Start()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := runner.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop() error = %v, want DeadlineExceeded", err)
	}
}

func TestRunner_RunOnce(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var runs atomic.Int32
	runner.Register(tasks.Job{
		Name:     "manual",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	if err := runner.RunOnce(context.Background(), "manual"); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if runs.Load() != 1 {
		t.Errorf("job ran %d times, want 1", runs.Load())
	}
	if err := runner.RunOnce(context.Background(), "missing"); !errors.Is(err, tasks.ErrUnknownJob) {
		t.Errorf("RunOnce(missing) error = %v, want ErrUnknownJob", err)
	}
	if names := runner.Names(); len(names) != 1 || names[0] != "manual" {
		t.Errorf("Names() = %v", names)
	}
}

func TestLedgerRetentionJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ledgerstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	for _, e := range []ledgerstore.Entry{
		{RequestID: "stale", Method: "GET", Path: "/blogs", StatusCode: 500, StartedAt: now.Add(-72 * time.Hour)},
		{RequestID: "recent", Method: "GET", Path: "/blogs", StatusCode: 500, StartedAt: now},
	} {
		if err := store.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	job := tasks.LedgerRetentionJob(store, 24*time.Hour, zap.NewNop())
	if job.Name != "ledger-retention" {
		t.Errorf("Name = %q", job.Name)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	left, err := store.RecentErrors(ctx, 10)
	if err != nil {
		t.Fatalf("RecentErrors() error = %v", err)
	}
	if len(left) != 1 || left[0].RequestID != "recent" {
		t.Errorf("remaining entries = %+v, want only recent", left)
	}
}

func TestStatsRetentionJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := apistatsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	if err := store.Record(ctx, "blogs", time.Hour, now.Add(-100*24*time.Hour), 5, false); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(ctx, "blogs", time.Hour, now, 5, false); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := tasks.StatsRetentionJob(store, 0, zap.NewNop()).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	left, err := store.Range(ctx, "blogs", now.Add(-200*24*time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if len(left) != 1 {
		t.Errorf("remaining buckets = %d, want 1", len(left))
	}
}
