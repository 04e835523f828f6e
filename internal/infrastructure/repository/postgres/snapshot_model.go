package postgres

import "time"

type pitchSnapshotModel struct {
	SnapshotDate string    `db:"snapshot_date"`
	Payload      []byte    `db:"payload"`
	FetchedAt    time.Time `db:"fetched_at"`
}

type pitchSnapshotInsertModel struct {
	SnapshotDate string    `db:"snapshot_date"`
	Payload      string    `db:"payload"`
	FetchedAt    time.Time `db:"fetched_at"`
}
