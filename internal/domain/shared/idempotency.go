package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards write operations against duplicate submission.
// Callers reserve a key before executing the operation; if the operation
// fails the reservation is released so the client may retry with the same key.
type IdempotencyStore interface {
	// MarkProcessed atomically reserves a key with a TTL.
	// Returns true if the key was newly reserved, false if it was already taken.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key has already been reserved
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release frees a previously reserved key, allowing a retry after a
	// failed operation. Releasing an unknown key is not an error.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for reserved keys.
	// After this duration, the same key can be submitted again.
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
