// internal/app/store/ledger/ledgerstore.go
package ledgerstore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the API ledger collection.
const CollectionName = "api_ledger"

// Entry records one API request that ended in an error response.
type Entry struct {
	ID primitive.ObjectID `bson:"_id" json:"id"`

	RequestID       string `bson:"request_id" json:"requestId"`                                  // Generated UUID
	ClientRequestID string `bson:"client_request_id,omitempty" json:"clientRequestId,omitempty"` // From X-Request-ID header

	Method   string            `bson:"method" json:"method"`
	Path     string            `bson:"path" json:"path"`
	Query    string            `bson:"query,omitempty" json:"query,omitempty"`
	Headers  map[string]string `bson:"headers,omitempty" json:"headers,omitempty"`
	RemoteIP string            `bson:"remote_ip" json:"remoteIp"`

	ActorType string `bson:"actor_type" json:"actorType"` // "token" or "anonymous"
	ActorID   string `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	ActorRole string `bson:"actor_role,omitempty" json:"actorRole,omitempty"`

	RequestBodySize    int64  `bson:"request_body_size" json:"requestBodySize"`
	RequestBodyPreview string `bson:"request_body_preview,omitempty" json:"requestBodyPreview,omitempty"`

	StatusCode   int    `bson:"status_code" json:"statusCode"`
	ResponseSize int64  `bson:"response_size" json:"responseSize"`
	ErrorClass   string `bson:"error_class,omitempty" json:"errorClass,omitempty"`
	ErrorMessage string `bson:"error_message,omitempty" json:"errorMessage,omitempty"`

	DurationMs  float64   `bson:"duration_ms" json:"durationMs"`
	StartedAt   time.Time `bson:"started_at" json:"startedAt"`
	CompletedAt time.Time `bson:"completed_at" json:"completedAt"`
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Method     string
	PathPrefix string
	ErrorClass string
	StatusMin  int
	Since      *time.Time
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Method != "" {
		q["method"] = f.Method
	}
	if f.PathPrefix != "" {
		q["path"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.PathPrefix)}
	}
	if f.ErrorClass != "" {
		q["error_class"] = f.ErrorClass
	}
	if f.StatusMin > 0 {
		q["status_code"] = bson.M{"$gte": f.StatusMin}
	}
	if f.Since != nil {
		q["started_at"] = bson.M{"$gte": *f.Since}
	}
	return q
}

// Store provides ledger entry persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new ledger store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a new ledger entry.
func (s *Store) Create(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// RecentErrors returns the newest entries, most recent first.
func (s *Store) RecentErrors(ctx context.Context, limit int64) ([]Entry, error) {
	return s.List(ctx, ListFilter{}, limit)
}

// List returns entries matching f, most recent first.
func (s *Store) List(ctx context.Context, f ListFilter, limit int64) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Entry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByRequestID returns the entry recorded for requestID.
func (s *Store) ByRequestID(ctx context.Context, requestID string) (*Entry, error) {
	var e Entry
	if err := s.c.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteOlderThan removes entries that started before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"started_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
