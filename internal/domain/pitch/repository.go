package pitch

import "context"

// Repository stores assembled per-date dataset snapshots.
type Repository interface {
	GetByDate(ctx context.Context, date string) (Snapshot, bool, error)
	Upsert(ctx context.Context, snapshot Snapshot) error
}
