// Package store provides the key-value persistence contract and its
// backends. State is stored as opaque JSON blobs under well-known keys.
package store

import (
	"context"
	"errors"
)

// Keys under which application state is persisted.
const (
	KeyCatalog      = "pos.catalog"
	KeySales        = "pos.sales"
	KeyOpeningFloat = "pos.opening_float"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Store is an opaque key-value store. Implementations must tolerate a first
// run (no keys) and must not interpret the stored bytes.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
