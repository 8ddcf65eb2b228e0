// Package kv is the session-scoped key/value store behind carts, auth
// sessions, checkout progress and cached order snapshots. Values are JSON
// blobs with a TTL; the platform remains the only durable system of record.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal TTL'd byte store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
