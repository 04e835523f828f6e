// Package memory holds in-process repositories used when no database is
// configured and as lightweight doubles in tests.
package memory

import (
	"context"
	"sync"

	"github.com/statsloop/pitchdash/internal/domain/pitch"
)

type SnapshotRepository struct {
	mu    sync.RWMutex
	items map[string]pitch.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{items: make(map[string]pitch.Snapshot)}
}

func (r *SnapshotRepository) GetByDate(_ context.Context, date string) (pitch.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.items[date]
	if !ok {
		return pitch.Snapshot{}, false, nil
	}
	return snapshot, true, nil
}

func (r *SnapshotRepository) Upsert(_ context.Context, snapshot pitch.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[snapshot.Date] = snapshot
	return nil
}
