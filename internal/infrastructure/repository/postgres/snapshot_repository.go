package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/statsloop/pitchdash/internal/domain/pitch"
	qb "github.com/statsloop/pitchdash/internal/platform/querybuilder"
)

// SnapshotRepository stores one assembled dataset per date as a JSONB
// document. Rows carry heterogeneous column sets, so a document column is a
// better fit than a relational pitch table.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type snapshotDocument struct {
	Columns []string    `json:"columns"`
	Rows    []pitch.Row `json:"rows"`
}

func (r *SnapshotRepository) GetByDate(ctx context.Context, date string) (pitch.Snapshot, bool, error) {
	query, args, err := qb.Select("snapshot_date", "payload", "fetched_at").
		From("pitch_snapshots").
		Where(qb.Eq("snapshot_date", date)).
		Limit(1).
		ToSQL()
	if err != nil {
		return pitch.Snapshot{}, false, fmt.Errorf("build select snapshot query: %w", err)
	}

	var model pitchSnapshotModel
	if err := r.db.GetContext(ctx, &model, query, args...); err != nil {
		if isNotFound(err) {
			return pitch.Snapshot{}, false, nil
		}
		return pitch.Snapshot{}, false, fmt.Errorf("select snapshot date=%s: %w", date, err)
	}

	var doc snapshotDocument
	if err := sonic.Unmarshal(model.Payload, &doc); err != nil {
		return pitch.Snapshot{}, false, fmt.Errorf("decode snapshot payload date=%s: %w", date, err)
	}

	return pitch.Snapshot{
		Date: model.SnapshotDate,
		Dataset: pitch.Dataset{
			Columns: doc.Columns,
			Rows:    doc.Rows,
		},
		FetchedAt: model.FetchedAt,
	}, true, nil
}

func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot pitch.Snapshot) error {
	payload, err := sonic.Marshal(snapshotDocument{
		Columns: snapshot.Dataset.Columns,
		Rows:    snapshot.Dataset.Rows,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot payload date=%s: %w", snapshot.Date, err)
	}

	insertModel := pitchSnapshotInsertModel{
		SnapshotDate: snapshot.Date,
		Payload:      string(payload),
		FetchedAt:    snapshot.FetchedAt,
	}

	query, args, err := qb.InsertModel("pitch_snapshots", insertModel, `ON CONFLICT (snapshot_date)
DO UPDATE SET
    payload = EXCLUDED.payload,
    fetched_at = EXCLUDED.fetched_at`)
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot date=%s: %w", snapshot.Date, err)
	}

	return nil
}
