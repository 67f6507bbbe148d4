// Package storage provides the persistent key-value store backing the cart
// and the order history.
//
// It plays the role a browser's per-origin storage plays for a web storefront:
// values are opaque byte blobs under string keys, writes may be refused when a
// quota is exceeded, and every caller treats a missing key as "empty".
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrQuotaExceeded is returned by Set when the value is larger than the store allows.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// Store is the key-value contract every backend implements.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// quota enforces a per-value size ceiling. Zero means unlimited.
type quota int

func (q quota) check(key string, value []byte) error {
	if q > 0 && len(key)+len(value) > int(q) {
		return fmt.Errorf("set %q (%d bytes, limit %d): %w", key, len(key)+len(value), int(q), ErrQuotaExceeded)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage: key is required")
	}
	return nil
}
