package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/statsloop/pitchdash/internal/domain/pitch"
	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	pitchmock "github.com/statsloop/pitchdash/internal/mocks/domain/pitch"
	rawfeedmock "github.com/statsloop/pitchdash/internal/mocks/domain/rawfeed"
)

func TestDatasetForDate_ServesFreshSnapshotUsingMockery(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 7, 18, 0, 0, 0, time.UTC)
	snapshots := pitchmock.NewRepository(t)
	schedule := &fakeSchedule{}

	svc := newTestDatasetService(t, DatasetServiceConfig{
		Schedule:  schedule,
		Feeds:     &fakeFeeds{},
		Snapshots: snapshots,
	})
	svc.now = func() time.Time { return now }

	snapshots.
		On("GetByDate", mock.Anything, "2025-10-07").
		Return(pitch.Snapshot{
			Date:      "2025-10-07",
			Dataset:   pitch.BuildDataset([]pitch.Row{{pitch.ColGameID: int64(748123)}}),
			FetchedAt: now.Add(-time.Hour),
		}, true, nil).
		Once()

	snapshot, err := svc.DatasetForDate(context.Background(), "2025-10-07")
	if err != nil {
		t.Fatalf("DatasetForDate: %v", err)
	}
	if len(snapshot.Dataset.Rows) != 1 {
		t.Fatalf("expected persisted dataset, got=%d rows", len(snapshot.Dataset.Rows))
	}
	if schedule.calls != 0 {
		t.Fatalf("expected no provider calls for fresh snapshot, got=%d", schedule.calls)
	}
}

func TestAssembleDate_PersistsAndArchivesUsingMockery(t *testing.T) {
	t.Parallel()

	schedule := &fakeSchedule{pks: map[string][]int64{"2025-10-07": {748123}}}
	feeds := &fakeFeeds{docs: map[int64]string{
		748123: feedDoc("2025-10-07", "Surprise Saguaros", 500, "Pitcher A", "Slider", 86.0),
	}}
	snapshots := pitchmock.NewRepository(t)
	rawFeeds := rawfeedmock.NewRepository(t)

	svc := newTestDatasetService(t, DatasetServiceConfig{
		Schedule:  schedule,
		Feeds:     feeds,
		Snapshots: snapshots,
		RawFeeds:  rawFeeds,
	})

	// One schedule payload plus one game feed payload.
	rawFeeds.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []rawfeed.Payload) bool { return len(items) == 2 })).
		Return(nil).
		Once()
	snapshots.
		On("Upsert", mock.Anything, mock.MatchedBy(func(s pitch.Snapshot) bool {
			return s.Date == "2025-10-07" && len(s.Dataset.Rows) == 1
		})).
		Return(nil).
		Once()

	snapshot, err := svc.AssembleDate(context.Background(), "2025-10-07")
	if err != nil {
		t.Fatalf("AssembleDate: %v", err)
	}
	if len(snapshot.Dataset.Rows) != 1 {
		t.Fatalf("unexpected row count: %d", len(snapshot.Dataset.Rows))
	}
}
