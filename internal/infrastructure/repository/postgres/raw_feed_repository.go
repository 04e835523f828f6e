package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	qb "github.com/statsloop/pitchdash/internal/platform/querybuilder"
)

type RawFeedRepository struct {
	db *sqlx.DB
}

func NewRawFeedRepository(db *sqlx.DB) *RawFeedRepository {
	return &RawFeedRepository{db: db}
}

func (r *RawFeedRepository) UpsertMany(ctx context.Context, items []rawfeed.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw feeds: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := rawFeedInsertModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			GamePk:      nullableInt64(item.GamePk),
			FeedDate:    nullableString(item.Date),
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}

		query, args, err := qb.InsertModel("raw_feed_payloads", insertModel, `ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    game_pk = EXCLUDED.game_pk,
    feed_date = EXCLUDED.feed_date,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at`)
		if err != nil {
			return fmt.Errorf("build upsert raw feed query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert raw feed entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw feeds tx: %w", err)
	}

	return nil
}

type rawFeedInsertModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	GamePk      *int64    `db:"game_pk"`
	FeedDate    *string   `db:"feed_date"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
