// Package store defines the key-value backend used for persisted console state.
package store

import (
	"context"
	"time"
)

// Client defines the interface for state backend operations.
type Client interface {
	// Get retrieves a value by key.
	// Returns nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A ttl of 0 keeps the value until it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// DeletePattern removes all keys matching the given glob pattern.
	// Only the '*' wildcard is guaranteed across backends.
	// Returns the number of keys deleted.
	DeletePattern(ctx context.Context, pattern string) (int64, error)

	// Ping checks if the backend connection is alive.
	Ping(ctx context.Context) error

	// Close closes the backend connection.
	Close() error
}
