package memory

import (
	"context"
	"testing"
	"time"

	"github.com/statsloop/pitchdash/internal/domain/pitch"
	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
)

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewSnapshotRepository()
	ctx := context.Background()

	_, found, err := repo.GetByDate(ctx, "2025-10-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected miss on empty repository")
	}

	first := pitch.Snapshot{
		Date:      "2025-10-07",
		Dataset:   pitch.Dataset{Columns: []string{"pitch_uid"}},
		FetchedAt: time.Date(2025, time.October, 7, 15, 0, 0, 0, time.UTC),
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := first
	second.FetchedAt = first.FetchedAt.Add(time.Hour)
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, found, err := repo.GetByDate(ctx, "2025-10-07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected hit after upsert")
	}
	if !got.FetchedAt.Equal(second.FetchedAt) {
		t.Fatalf("expected latest upsert to win, got fetched_at=%s", got.FetchedAt)
	}
}

func TestRawFeedRepositoryUpsertMany(t *testing.T) {
	t.Parallel()

	repo := NewRawFeedRepository()
	ctx := context.Background()

	err := repo.UpsertMany(ctx, []rawfeed.Payload{
		{Source: "statsapi", EntityType: "game_feed", EntityKey: "748123", PayloadHash: "aaa"},
		{Source: "statsapi", EntityType: "schedule", EntityKey: "2025-10-07", PayloadHash: "bbb"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Same key again replaces the stored payload without duplicating it.
	err = repo.UpsertMany(ctx, []rawfeed.Payload{
		{Source: "statsapi", EntityType: "game_feed", EntityKey: "748123", PayloadHash: "ccc"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(items))
	}
	if items[0].PayloadHash != "ccc" {
		t.Fatalf("expected replacement to keep first-seen order, got hash=%q", items[0].PayloadHash)
	}
	if items[1].EntityType != "schedule" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}
