// Package store provides the key-addressed record store the engine uses for
// durable state. The engine reads every collection once at startup and
// writes records after each committed mutation; write failures are treated
// as transient and retried on later mutations, so implementations only need
// best-effort durability.
package store

import "context"

// Collection names used by the engine.
const (
	CollectionSpots        = "spots"
	CollectionTransactions = "transactions"
	CollectionSessions     = "sessions"
	CollectionUsers        = "users"
)

// Record is one stored entry: an opaque JSON document under a
// caller-assigned key.
type Record struct {
	Key  string
	Data []byte
}

// Store is a key-addressed get/put/delete interface over named collections.
type Store interface {
	// List returns every record in a collection. A missing collection is
	// returned as empty, not as an error.
	List(ctx context.Context, collection string) ([]Record, error)

	// Put creates or replaces the record under key.
	Put(ctx context.Context, collection, key string, data []byte) error

	// Delete removes the record under key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, collection, key string) error
}
