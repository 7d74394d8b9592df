package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrInvalidJSON is returned for a body that looks like a JSON object but is not one.
	ErrInvalidJSON = errors.New("invalid JSON object")
	// ErrCorrupt is returned when persisted data cannot be decoded.
	ErrCorrupt = errors.New("corrupt stored value")
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
	// ErrMissingPath is returned by Open when no storage path is configured.
	ErrMissingPath = errors.New("no storage path provided")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Store is a durable key-value backend. Implementations must be safe for
// concurrent use and must never expose a partially written value: a Get
// observes either the previous value or the new one.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value Value, found bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value Value) error
	// Close releases the backend's resources.
	Close() error
}

// keyDigest is the fixed-length name a backend uses for key when the key
// itself cannot be used as a file name or index column.
func keyDigest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
