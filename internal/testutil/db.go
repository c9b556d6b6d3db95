// Package testutil holds the database, token and HTTP helpers shared by
// package tests.
package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratacms/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDBName prefixes every per-test database.
const TestDBName = "stratacms_test"

// mongoURI is STRATACMS_TEST_MONGO_URI or a local server.
func mongoURI() string {
	if uri := os.Getenv("STRATACMS_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

var shared struct {
	once   sync.Once
	client *mongo.Client
	err    error
}

func sharedClient() (*mongo.Client, error) {
	shared.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(mongoURI()).
			SetMaxPoolSize(200).
			SetMinPoolSize(5).
			SetMaxConnIdleTime(30 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)

		shared.client, shared.err = mongo.Connect(ctx, opts)
		if shared.err == nil {
			shared.err = shared.client.Ping(ctx, nil)
		}
	})
	return shared.client, shared.err
}

// SetupTestDB returns an empty database private to t, with indexes in place.
// It is dropped again when t finishes.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := sharedClient()
	if err != nil {
		t.Fatalf("connect test MongoDB at %s: %v", mongoURI(), err)
	}
	db := client.Database(DBName(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database %s: %v", db.Name(), err)
		}
	})
	return db
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// DBName derives a database name from a test name. MongoDB caps names at 63
// bytes, so long names keep a prefix plus a hash of the full name.
func DBName(testName string) string {
	name := TestDBName + "_" + unsafeChars.ReplaceAllString(testName, "_")
	if len(name) <= 63 {
		return name
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(testName))
	return fmt.Sprintf("%s_%08x", name[:54], h.Sum32())
}

// TestContext returns a context bounded for a single test operation.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
