// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one.
//
// Standalone servers reject transactions; there the function simply runs
// without one, so callers get atomicity on replica sets and the same
// behavior as before everywhere else.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func does the work. ctx is a session context inside a transaction and the
// caller's context otherwise; use it for every database call.
type Func func(ctx context.Context) error

// Run executes fn in a transaction on db's client, falling back to a plain
// call when transactions are unavailable. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		warn(log, "failed to start session, running without transaction", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, "transactions not supported, running without transaction", err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Debug(msg, zap.Error(err))
	}
}

// IsNotSupported reports whether err means the server cannot run
// transactions, as on a standalone mongod.
//
// Codes: 20 IllegalOperation ("Transaction numbers are only allowed on a
// replica set member or mongos"), 51, and 263 for operations refused inside
// a transaction.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	// Require two keywords so that unrelated errors mentioning "session"
	// are not swallowed.
	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}
