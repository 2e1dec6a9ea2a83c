// Package cache provides the short-lived key/value store used by the
// persistence client for health results and duplicate-save claims.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-key expiry
type Cache interface {
	// Get returns the value stored under key. found is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
