package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/statsloop/pitchdash/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Entries may carry the store's default TTL
// or an explicit deadline (datasets stay valid until the next refresh cutoff,
// not for a fixed duration).
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	deadline := time.Time{}
	if s.ttl > 0 {
		deadline = s.now().Add(s.ttl)
	}
	s.SetUntil(ctx, key, value, deadline)
}

// SetUntil stores value with an explicit expiry deadline. A zero deadline
// means the entry never expires.
func (s *Store) SetUntil(_ context.Context, key string, value any, deadline time.Time) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: deadline,
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading it at most once across
// concurrent callers.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	return s.GetOrLoadUntil(ctx, key, time.Time{}, loader)
}

// GetOrLoadUntil is GetOrLoad with an explicit expiry deadline for the loaded
// value. A zero deadline falls back to the store's default TTL.
func (s *Store) GetOrLoadUntil(ctx context.Context, key string, deadline time.Time, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if deadline.IsZero() {
			s.Set(ctx, key, loaded)
		} else {
			s.SetUntil(ctx, key, loaded, deadline)
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
