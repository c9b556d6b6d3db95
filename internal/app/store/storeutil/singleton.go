// internal/app/store/storeutil/singleton.go
package storeutil

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SingletonFilter selects the one document of a singleton collection. The
// collection carries a unique index on the singleton key.
var SingletonFilter = bson.M{"singleton": true}

// ToDoc converts a model into a bson.M using its bson tags.
func ToDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetOrCreateSingleton returns the singleton document, inserting defaults
// first when none exists. defaults is a model value; its zero _id is omitted.
func GetOrCreateSingleton(ctx context.Context, c *mongo.Collection, defaults any, out any) error {
	return UpsertSingleton(ctx, c, bson.M{}, defaults, out)
}

// UpsertSingleton applies set to the singleton document and decodes the
// result into out. When no document exists one is created from defaults
// with set applied on top. A concurrent insert that loses the race on the
// unique index is retried once as a plain update.
func UpsertSingleton(ctx context.Context, c *mongo.Collection, set bson.M, defaults any, out any) error {
	onInsert, err := ToDoc(defaults)
	if err != nil {
		return err
	}
	delete(onInsert, "_id")
	now := time.Now().UTC()
	onInsert["created_at"] = now
	onInsert["updated_at"] = now
	for k := range set {
		delete(onInsert, k)
	}
	if len(set) > 0 {
		set["updated_at"] = now
		delete(onInsert, "updated_at")
	}

	update := bson.M{"$setOnInsert": onInsert}
	if len(set) > 0 {
		update["$set"] = set
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err = c.FindOneAndUpdate(ctx, SingletonFilter, update, opts).Decode(out)
	if err == nil || !IsDuplicateKey(err) {
		return err
	}

	if len(set) == 0 {
		return c.FindOne(ctx, SingletonFilter).Decode(out)
	}
	opts.SetUpsert(false)
	err = c.FindOneAndUpdate(ctx, SingletonFilter, bson.M{"$set": set}, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
