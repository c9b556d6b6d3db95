// Package validators creates the CMS collections and attaches JSON-Schema
// validators to the ones written from untrusted input.
//
// Servers without collMod support (some DocumentDB versions) keep the
// collections but skip the schema.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/stratacms/internal/app/system/indexes"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type collectionSpec struct {
	name   string
	schema func() bson.M
}

var collections = []collectionSpec{
	{indexes.BannerCollections, nil},
	{indexes.BannerCountdowns, countdownsSchema},
	{indexes.HeroBanners, heroBannersSchema},
	{indexes.Blogs, nil},
	{indexes.BlogComments, blogCommentsSchema},
	{indexes.StaticPages, staticPagesSchema},
	{indexes.FooterConfigs, nil},
	{indexes.HeaderMenuConfigs, nil},
	{indexes.APILedger, nil},
	{indexes.APIStats, nil},
}

// EnsureAll creates every missing collection and applies its validator.
// Failures are collected so one bad collection does not hide the others.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var errs []error
	for _, c := range collections {
		if !have[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && classify(err) != namespaceExists {
				errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
				continue
			}
			logger.Info("created collection", zap.String("collection", c.name))
		}
		if c.schema == nil {
			continue
		}
		switch err := applySchema(ctx, db, c.name, c.schema()); {
		case err == nil:
			logger.Debug("validator ensured", zap.String("collection", c.name))
		case classify(err) == unsupported:
			logger.Info("validator skipped (unsupported)", zap.String("collection", c.name))
		default:
			errs = append(errs, fmt.Errorf("%s validator: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func applySchema(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: bson.M{"$jsonSchema": schema}},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

type errClass int

const (
	otherErr errClass = iota
	namespaceExists
	unsupported
)

// classify maps server command failures by code, falling back to the
// message for drivers and proxies that drop codes.
func classify(err error) errClass {
	if err == nil {
		return otherErr
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 48:
			return namespaceExists
		case 59, 115:
			return unsupported
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already exists"), strings.Contains(msg, "namespace exists"):
		return namespaceExists
	case strings.Contains(msg, "no such command"), strings.Contains(msg, "not implemented"), strings.Contains(msg, "not supported"):
		return unsupported
	}
	return otherErr
}

// nonBlank matches strings with at least one non-space character.
var nonBlank = bson.M{"bsonType": "string", "pattern": `.*\S.*`}

func blogCommentsSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"blog_id", "name", "email", "comment", "is_approved"},
		"properties": bson.M{
			"blog_id":     bson.M{"bsonType": "objectId"},
			"parent_id":   bson.M{"bsonType": bson.A{"objectId", "null"}},
			"name":        nonBlank,
			"email":       bson.M{"bsonType": "string", "minLength": 3},
			"comment":     nonBlank,
			"is_approved": bson.M{"bsonType": "bool"},
		},
	}
}

func staticPagesSchema() bson.M {
	types := bson.A{}
	for _, t := range models.AllPageTypes() {
		types = append(types, t)
	}
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"title", "slug", "content", "page_type"},
		"properties": bson.M{
			"title":     nonBlank,
			"slug":      bson.M{"bsonType": "string", "minLength": 1},
			"page_type": bson.M{"enum": types},
			"is_active": bson.M{"bsonType": "bool"},
		},
	}
}

func heroBannersSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"img_src", "heading"},
		"properties": bson.M{
			"img_src":   bson.M{"bsonType": "string"},
			"heading":   bson.M{"bsonType": "string"},
			"order":     bson.M{"bsonType": bson.A{"int", "long"}},
			"is_active": bson.M{"bsonType": "bool"},
		},
	}
}

func countdownsSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"properties": bson.M{
			"end_date":  bson.M{"bsonType": "date"},
			"order":     bson.M{"bsonType": bson.A{"int", "long"}},
			"is_active": bson.M{"bsonType": "bool"},
		},
	}
}
