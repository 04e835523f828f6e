package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/statsloop/pitchdash/internal/domain/pitch"
	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	"github.com/statsloop/pitchdash/internal/platform/cache"
	"github.com/statsloop/pitchdash/internal/platform/freshness"
	"github.com/statsloop/pitchdash/internal/platform/logging"
)

const (
	dateLayout = "2006-01-02"

	defaultAssembleWorkers = 4
	datasetCachePrefix     = "dataset:"
)

// DatasetService assembles the per-date pitch dataset: it lists the day's
// games, fetches each live feed concurrently, flattens pitch events into
// rows, and serves the column-aligned result from cache until the next
// refresh cutoff.
type DatasetService struct {
	schedule   GameScheduleProvider
	feeds      GameFeedProvider
	snapshots  pitch.Repository
	rawFeeds   rawfeed.Repository
	cache      *cache.Store
	window     freshness.Window
	logger     *logging.Logger
	maxWorkers int
	homeTeams  map[string]struct{}
	now        func() time.Time
}

type DatasetServiceConfig struct {
	Schedule   GameScheduleProvider
	Feeds      GameFeedProvider
	Snapshots  pitch.Repository
	RawFeeds   rawfeed.Repository
	Cache      *cache.Store
	Window     freshness.Window
	Logger     *logging.Logger
	MaxWorkers int
	// HomeTeams restricts the dataset to games hosted by these clubs; empty
	// keeps every game on the schedule.
	HomeTeams []string
}

func NewDatasetService(cfg DatasetServiceConfig) *DatasetService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultAssembleWorkers
	}

	var homeTeams map[string]struct{}
	if len(cfg.HomeTeams) > 0 {
		homeTeams = make(map[string]struct{}, len(cfg.HomeTeams))
		for _, name := range cfg.HomeTeams {
			homeTeams[name] = struct{}{}
		}
	}

	return &DatasetService{
		schedule:   cfg.Schedule,
		feeds:      cfg.Feeds,
		snapshots:  cfg.Snapshots,
		rawFeeds:   cfg.RawFeeds,
		cache:      cfg.Cache,
		window:     cfg.Window,
		logger:     logger,
		maxWorkers: maxWorkers,
		homeTeams:  homeTeams,
		now:        time.Now,
	}
}

// DatasetForDate returns the date's snapshot, serving cache first, then a
// fresh-enough persisted snapshot, and assembling from the provider last.
func (s *DatasetService) DatasetForDate(ctx context.Context, date string) (pitch.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "DatasetService.DatasetForDate")
	defer span.End()

	if err := validateDate(date); err != nil {
		return pitch.Snapshot{}, err
	}

	load := func(ctx context.Context) (any, error) {
		if s.snapshots != nil {
			snapshot, ok, err := s.snapshots.GetByDate(ctx, date)
			if err != nil {
				s.logger.WarnContext(ctx, "snapshot lookup failed, assembling from provider", "date", date, "error", err)
			} else if ok && s.window.IsFresh(snapshot.FetchedAt, s.now()) {
				return snapshot, nil
			}
		}
		return s.AssembleDate(ctx, date)
	}

	if s.cache == nil {
		snapshot, err := load(ctx)
		if err != nil {
			return pitch.Snapshot{}, err
		}
		return snapshot.(pitch.Snapshot), nil
	}

	deadline := s.window.NextCutoff(s.now())
	out, err := s.cache.GetOrLoadUntil(ctx, datasetCachePrefix+date, deadline, load)
	if err != nil {
		return pitch.Snapshot{}, err
	}
	snapshot, ok := out.(pitch.Snapshot)
	if !ok {
		return pitch.Snapshot{}, fmt.Errorf("unexpected cache payload type %T", out)
	}
	return snapshot, nil
}

// AssembleDate builds the date's dataset from the provider, persists it, and
// returns it. Single game failures are tolerated; the date fails only when
// every scheduled game does.
func (s *DatasetService) AssembleDate(ctx context.Context, date string) (pitch.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "DatasetService.AssembleDate")
	defer span.End()

	if err := validateDate(date); err != nil {
		return pitch.Snapshot{}, err
	}

	pks, payloads, err := s.schedule.GamePksByDate(ctx, date)
	if err != nil {
		return pitch.Snapshot{}, fmt.Errorf("list games date=%s: %w", date, err)
	}

	var (
		mu   sync.Mutex
		rows []pitch.Row
	)
	var failedCount atomic.Int32

	if len(pks) > 0 {
		workerCount := s.maxWorkers
		if workerCount > len(pks) {
			workerCount = len(pks)
		}
		pool, poolErr := ants.NewPool(workerCount)
		if poolErr != nil {
			return pitch.Snapshot{}, fmt.Errorf("create worker pool: %w", poolErr)
		}
		defer pool.Release()

		var workers sync.WaitGroup
		for _, gamePk := range pks {
			gamePk := gamePk
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()

				feed, payload, feedErr := s.feeds.LiveFeed(ctx, gamePk)
				if feedErr != nil {
					failedCount.Add(1)
					s.logger.WarnContext(ctx, "skip game: live feed fetch failed", "date", date, "game_pk", gamePk, "error", feedErr)
					return
				}
				gameRows := pitch.RowsFromFeed(feed, gamePk)
				if len(gameRows) == 0 {
					s.logger.InfoContext(ctx, "no pitch rows for game", "date", date, "game_pk", gamePk)
				}

				mu.Lock()
				rows = append(rows, gameRows...)
				payloads = append(payloads, payload)
				mu.Unlock()
			}); err != nil {
				workers.Done()
				workers.Wait()
				return pitch.Snapshot{}, fmt.Errorf("submit game to worker pool: %w", err)
			}
		}
		workers.Wait()
	}

	// Fetch failures degrade to empty row sets; callers always get a dataset.
	allFailed := len(pks) > 0 && int(failedCount.Load()) == len(pks)
	if allFailed {
		s.logger.ErrorContext(ctx, "all live feeds failed, serving empty dataset", "date", date, "games", len(pks))
	}

	rows = s.filterHomeTeams(rows)
	snapshot := pitch.Snapshot{
		Date:      date,
		Dataset:   pitch.BuildDataset(rows),
		FetchedAt: s.now().UTC(),
	}
	if snapshot.Dataset.IsEmpty() {
		s.logger.InfoContext(ctx, "assembled empty dataset", "date", date, "games", len(pks))
	}

	if s.rawFeeds != nil && len(payloads) > 0 {
		if err := s.rawFeeds.UpsertMany(ctx, payloads); err != nil {
			s.logger.WarnContext(ctx, "raw payload archive failed", "date", date, "count", len(payloads), "error", err)
		}
	}
	// A fully-failed date is served but not persisted, so the next refresh
	// retries instead of reading back an outage-shaped snapshot.
	if s.snapshots != nil && !allFailed {
		if err := s.snapshots.Upsert(ctx, snapshot); err != nil {
			s.logger.WarnContext(ctx, "snapshot persist failed", "date", date, "error", err)
		}
	}

	return snapshot, nil
}

type RangeResult struct {
	Dates     []string `json:"dates"`
	RowCount  int      `json:"row_count"`
	FailCount int      `json:"fail_count"`
}

// AssembleRange refreshes every date in [from, to]. Dates that fail are
// counted and skipped so one bad day does not abort a season backfill.
func (s *DatasetService) AssembleRange(ctx context.Context, from, to string) (RangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DatasetService.AssembleRange")
	defer span.End()

	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return RangeResult{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return RangeResult{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return RangeResult{}, fmt.Errorf("%w: range end precedes start", ErrInvalidInput)
	}

	result := RangeResult{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		date := day.Format(dateLayout)
		snapshot, err := s.AssembleDate(ctx, date)
		if err != nil {
			result.FailCount++
			s.logger.WarnContext(ctx, "range assembly: date failed", "date", date, "error", err)
			continue
		}
		if s.cache != nil {
			s.cache.SetUntil(ctx, datasetCachePrefix+date, snapshot, s.window.NextCutoff(s.now()))
		}
		result.Dates = append(result.Dates, date)
		result.RowCount += len(snapshot.Dataset.Rows)
	}
	return result, nil
}

// DatasetForRange merges the per-date datasets of [from, to] into one
// column-aligned dataset, reusing cached days.
func (s *DatasetService) DatasetForRange(ctx context.Context, from, to string) (pitch.Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "DatasetService.DatasetForRange")
	defer span.End()

	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return pitch.Dataset{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return pitch.Dataset{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return pitch.Dataset{}, fmt.Errorf("%w: range end precedes start", ErrInvalidInput)
	}

	datasets := make([]pitch.Dataset, 0, 8)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return pitch.Dataset{}, ctx.Err()
		}
		date := day.Format(dateLayout)
		snapshot, err := s.DatasetForDate(ctx, date)
		if err != nil {
			s.logger.WarnContext(ctx, "range dataset: date skipped", "date", date, "error", err)
			continue
		}
		if !snapshot.Dataset.IsEmpty() {
			datasets = append(datasets, snapshot.Dataset)
		}
	}

	return pitch.BuildDataset(pitch.MergeRows(datasets...)), nil
}

func (s *DatasetService) filterHomeTeams(rows []pitch.Row) []pitch.Row {
	if len(s.homeTeams) == 0 {
		return rows
	}
	kept := rows[:0]
	for _, row := range rows {
		name, _ := row[pitch.ColHomeTeam].(string)
		if _, ok := s.homeTeams[name]; ok {
			kept = append(kept, row)
		}
	}
	return kept
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}
