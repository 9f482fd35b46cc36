// Package store provides durable key-value storage for session state.
package store

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when the key has no value.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyEmpty is returned when an operation is called with an empty key.
	ErrKeyEmpty = errors.New("key cannot be empty")
)

// KV is a string-keyed, string-valued store. Values are whole records;
// callers read-modify-write them.
type KV interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
