package cache

import (
	"context"
	"sync"
	"time"

	"github.com/outsiders/backend/internal/domain/shared"
)

// cleanupInterval is how often expired reservations are swept out.
const cleanupInterval = 5 * time.Minute

// reservation is a claimed Idempotency-Key with its expiry.
type reservation struct {
	expiresAt time.Time
}

func (r reservation) live(now time.Time) bool {
	return now.Before(r.expiresAt)
}

// InMemoryIdempotencyStore keeps idempotency reservations in a map. It
// covers single-instance deployments and tests; multi-instance setups
// need the redis store, since each process would otherwise hold its own
// view of which checkouts and sales were already finalized.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]reservation
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its sweep
// goroutine. Call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]reservation),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkProcessed reserves a key with a TTL. Returns true if the key was
// newly reserved, false if a live reservation already holds it. An
// expired reservation is overwritten as if absent.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, exists := s.entries[key]; exists && r.live(now) {
		return false, nil
	}

	s.entries[key] = reservation{expiresAt: now.Add(ttl)}
	return true, nil
}

// IsProcessed reports whether a live reservation holds the key.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.entries[key]
	return exists && r.live(time.Now()), nil
}

// Release frees a reserved key so the same request can be retried. Used
// when the operation behind the key failed after the reservation.
func (s *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup drops every expired reservation.
func (s *InMemoryIdempotencyStore) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, r := range s.entries {
		if !r.live(now) {
			delete(s.entries, key)
		}
	}
}

// Size reports the number of reservations, expired ones included.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
