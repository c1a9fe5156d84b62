package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("reserves a new key", func(t *testing.T) {
		key := "key-1"
		ttl := 1 * time.Hour

		isNew, err := store.MarkProcessed(ctx, key, ttl)
		require.NoError(t, err)
		assert.True(t, isNew, "new key should return true")
	})

	t.Run("returns false for an already reserved key", func(t *testing.T) {
		key := "key-2"
		ttl := 1 * time.Hour

		// First call
		isNew, err := store.MarkProcessed(ctx, key, ttl)
		require.NoError(t, err)
		assert.True(t, isNew)

		// Second call - should return false
		isNew, err = store.MarkProcessed(ctx, key, ttl)
		require.NoError(t, err)
		assert.False(t, isNew, "already reserved key should return false")
	})

	t.Run("allows reuse after expiration", func(t *testing.T) {
		key := "key-3"
		ttl := 10 * time.Millisecond

		// First call
		isNew, err := store.MarkProcessed(ctx, key, ttl)
		require.NoError(t, err)
		assert.True(t, isNew)

		// Wait for expiration
		time.Sleep(20 * time.Millisecond)

		// Should allow reprocessing after expiration
		isNew, err = store.MarkProcessed(ctx, key, ttl)
		require.NoError(t, err)
		assert.True(t, isNew, "expired key should be reusable")
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("returns false for an unknown key", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "unknown-key")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("returns true for a reserved key", func(t *testing.T) {
		key := "reserved-key"
		_, err := store.MarkProcessed(ctx, key, 1*time.Hour)
		require.NoError(t, err)

		processed, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("returns false for an expired key", func(t *testing.T) {
		key := "expired-key"
		_, err := store.MarkProcessed(ctx, key, 10*time.Millisecond)
		require.NoError(t, err)

		// Wait for expiration
		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, key)
		require.NoError(t, err)
		assert.False(t, processed, "expired key should return false")
	})
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	assert.Equal(t, 0, store.Size(), "empty store should have size 0")

	// Reserve some keys
	store.MarkProcessed(ctx, "key-1", 1*time.Hour)
	assert.Equal(t, 1, store.Size())

	store.MarkProcessed(ctx, "key-2", 1*time.Hour)
	assert.Equal(t, 2, store.Size())

	// Reserving the same key shouldn't increase size
	store.MarkProcessed(ctx, "key-1", 1*time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	// Reserve keys with short TTL
	store.MarkProcessed(ctx, "short-lived-1", 10*time.Millisecond)
	store.MarkProcessed(ctx, "short-lived-2", 10*time.Millisecond)
	store.MarkProcessed(ctx, "long-lived", 1*time.Hour)

	assert.Equal(t, 3, store.Size())

	// Wait for short-lived entries to expire
	time.Sleep(20 * time.Millisecond)

	// Manually trigger cleanup
	store.cleanup()

	// Only long-lived entry should remain
	assert.Equal(t, 1, store.Size())

	// Verify the long-lived entry is still there
	processed, err := store.IsProcessed(ctx, "long-lived")
	require.NoError(t, err)
	assert.True(t, processed)

	// Verify short-lived entries are gone
	processed, err = store.IsProcessed(ctx, "short-lived-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const numGoroutines = 100
	const key = "concurrent-key"

	// Channel to collect results
	results := make(chan bool, numGoroutines)

	// Launch concurrent goroutines racing for the same key
	for i := 0; i < numGoroutines; i++ {
		go func() {
			isNew, err := store.MarkProcessed(ctx, key, 1*time.Hour)
			if err != nil {
				results <- false
			} else {
				results <- isNew
			}
		}()
	}

	// Collect results
	newCount := 0
	duplicateCount := 0
	for i := 0; i < numGoroutines; i++ {
		if <-results {
			newCount++
		} else {
			duplicateCount++
		}
	}

	// Exactly one goroutine should have marked it as new
	assert.Equal(t, 1, newCount, "exactly one goroutine should win the reservation")
	assert.Equal(t, numGoroutines-1, duplicateCount, "all others should be duplicates")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	// Close should not panic and should return nil
	err := store.Close()
	assert.NoError(t, err)

	// Multiple closes should be safe
	err = store.Close()
	assert.NoError(t, err)
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("released key can be reserved again", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "retry-key", 1*time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		require.NoError(t, store.Release(ctx, "retry-key"))

		isNew, err = store.MarkProcessed(ctx, "retry-key", 1*time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew, "released key should be reservable again")
	})

	t.Run("releasing an unknown key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Release(ctx, "never-reserved"))
	})
}
