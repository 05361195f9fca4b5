// Package mongo implements the repository interfaces on top of MongoDB.
//
// The package keeps its own bson document types (userDoc, cardDoc) and
// converts at the boundary, so the rest of the application only ever sees
// model structs with plain string ids. Driver-specific failures are
// translated into the repository package's sentinels here and nowhere else:
//   - mongo.ErrNoDocuments          → repository.ErrNotFound
//   - mongo.IsDuplicateKeyError     → repository.ErrDuplicateKey
//   - primitive.ObjectIDFromHex err → repository.ErrMalformedID
//
// Anything else is wrapped and surfaces as an internal failure upstream.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/mesto-api/internal/repository"
)

// DB owns the Mongo client and exposes one store per collection. The
// server creates it at startup and disconnects it on shutdown.
type DB struct {
	client *mongo.Client
	Users  *UserStore
	Cards  *CardStore
}

// New connects to MongoDB, verifies the connection, and ensures the unique
// index on users.email. Email uniqueness is enforced by the store — a
// concurrent duplicate registration loses the index race and comes back as
// repository.ErrDuplicateKey, never as a second account.
func New(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	// Ping forces a round trip so a bad address fails at startup,
	// not on the first query.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	db := client.Database(dbName)
	store := &DB{
		client: client,
		Users:  &UserStore{col: db.Collection("users")},
		Cards:  &CardStore{col: db.Collection("cards")},
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return store, nil
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	_, err := db.Users.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: creating email index: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting up to ten seconds for in-flight
// operations to drain.
func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnecting: %w", err)
	}
	return nil
}

// parseID casts a caller-supplied hex string to an ObjectID. A failed cast
// is the caller's fault (wrong length or non-hex characters), so it maps to
// ErrMalformedID rather than an internal error.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", repository.ErrMalformedID, id)
	}
	return oid, nil
}
