package usecase

import (
	"context"
	"time"

	"github.com/statsloop/pitchdash/internal/platform/freshness"
	"github.com/statsloop/pitchdash/internal/platform/logging"
)

// RefreshService warms the current date's dataset in the background so the
// first dashboard request after a cutoff does not pay the assembly cost.
type RefreshService struct {
	datasets *DatasetService
	window   freshness.Window
	logger   *logging.Logger
	now      func() time.Time
}

func NewRefreshService(datasets *DatasetService, window freshness.Window, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RefreshService{
		datasets: datasets,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

// Run warms today's dataset immediately, then once after every daily cutoff,
// until the context is cancelled.
func (s *RefreshService) Run(ctx context.Context) {
	s.warm(ctx)

	for {
		wait := s.window.UntilNextCutoff(s.now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		s.warm(ctx)
	}
}

func (s *RefreshService) warm(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	date := s.window.DateOf(s.now())
	start := time.Now()
	result, err := s.datasets.AssembleRange(ctx, date, date)
	if err != nil {
		s.logger.ErrorContext(ctx, "background refresh failed", "date", date, "error", err)
		return
	}
	if result.FailCount > 0 {
		s.logger.ErrorContext(ctx, "background refresh failed", "date", date, "error", "date assembly failed")
		return
	}
	s.logger.InfoContext(ctx, "background refresh completed",
		"date", date,
		"rows", result.RowCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
