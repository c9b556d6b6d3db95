// Package apistats stores per-module request counters in fixed time buckets.
package apistats

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for API statistics.
const CollectionName = "api_stats"

// Bucket aggregates the requests one module served in one time window.
type Bucket struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Bucket         time.Time          `bson:"bucket" json:"bucket"`                   // window start
	BucketDuration string             `bson:"bucket_duration" json:"bucketDuration"` // e.g. "1h0m0s"
	Module         string             `bson:"module" json:"module"`
	Requests       int64              `bson:"requests" json:"requests"`
	Errors         int64              `bson:"errors" json:"errors"` // 4xx and 5xx
	TotalMs        int64              `bson:"total_ms" json:"totalMs"`
	MinMs          int64              `bson:"min_ms" json:"minMs"`
	MaxMs          int64              `bson:"max_ms" json:"maxMs"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// AvgMs returns the mean response time in milliseconds.
func (b *Bucket) AvgMs() float64 {
	if b.Requests == 0 {
		return 0
	}
	return float64(b.TotalMs) / float64(b.Requests)
}

// Store provides API statistics persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new API stats store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Truncate returns the start of the bucket containing t.
func Truncate(t time.Time, d time.Duration) time.Time {
	return t.UTC().Truncate(d)
}

// Record adds one request to module's bucket for at, creating the bucket on
// first use.
func (s *Store) Record(ctx context.Context, module string, d time.Duration, at time.Time, durationMs int64, isError bool) error {
	bucket := Truncate(at, d)
	inc := bson.M{"requests": 1, "total_ms": durationMs}
	if isError {
		inc["errors"] = 1
	}

	// $min/$max also initialize on insert, so min_ms/max_ms stay out of $setOnInsert.
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updated_at": at.UTC()},
		"$setOnInsert": bson.M{
			"_id":             primitive.NewObjectID(),
			"bucket":          bucket,
			"bucket_duration": d.String(),
			"module":          module,
		},
		"$min": bson.M{"min_ms": durationMs},
		"$max": bson.M{"max_ms": durationMs},
	}
	_, err := s.c.UpdateOne(ctx, bson.M{
		"bucket":          bucket,
		"module":          module,
		"bucket_duration": d.String(),
	}, update, options.Update().SetUpsert(true))
	return err
}

// Range returns module's buckets with start <= bucket <= end, oldest first.
func (s *Store) Range(ctx context.Context, module string, start, end time.Time) ([]Bucket, error) {
	filter := bson.M{
		"module": module,
		"bucket": bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "bucket", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Bucket{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary totals one module over a range.
type Summary struct {
	Module        string    `bson:"_id" json:"module"`
	TotalRequests int64     `bson:"requests" json:"totalRequests"`
	TotalErrors   int64     `bson:"errors" json:"totalErrors"`
	TotalMs       int64     `bson:"total_ms" json:"-"`
	AvgMs         float64   `bson:"-" json:"avgMs"`
	MinMs         int64     `bson:"min_ms" json:"minMs"`
	MaxMs         int64     `bson:"max_ms" json:"maxMs"`
	FirstBucket   time.Time `bson:"first_bucket" json:"firstBucket"`
	LastBucket    time.Time `bson:"last_bucket" json:"lastBucket"`
}

// Summaries totals every module with buckets in [start, end], sorted by module.
func (s *Store) Summaries(ctx context.Context, start, end time.Time) ([]Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"bucket": bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$module",
			"requests":     bson.M{"$sum": "$requests"},
			"errors":       bson.M{"$sum": "$errors"},
			"total_ms":     bson.M{"$sum": "$total_ms"},
			"min_ms":       bson.M{"$min": "$min_ms"},
			"max_ms":       bson.M{"$max": "$max_ms"},
			"first_bucket": bson.M{"$min": "$bucket"},
			"last_bucket":  bson.M{"$max": "$bucket"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].TotalRequests > 0 {
			out[i].AvgMs = float64(out[i].TotalMs) / float64(out[i].TotalRequests)
		}
	}
	return out, nil
}

// DeleteOlderThan removes buckets that start before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"bucket": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
