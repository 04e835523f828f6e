package memory

import (
	"context"
	"sync"

	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
)

type RawFeedRepository struct {
	mu    sync.RWMutex
	items map[string]rawfeed.Payload
	order []string
}

func NewRawFeedRepository() *RawFeedRepository {
	return &RawFeedRepository{items: make(map[string]rawfeed.Payload)}
}

func (r *RawFeedRepository) UpsertMany(_ context.Context, items []rawfeed.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := item.Source + "|" + item.EntityType + "|" + item.EntityKey
		if _, exists := r.items[key]; !exists {
			r.order = append(r.order, key)
		}
		r.items[key] = item
	}
	return nil
}

// List returns archived payloads in first-seen order.
func (r *RawFeedRepository) List(_ context.Context) ([]rawfeed.Payload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rawfeed.Payload, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out, nil
}
