package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/statsloop/pitchdash/internal/usecase"
)

func (h *Handler) ListPitchersByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPitchersByDate")
	defer span.End()

	date := r.PathValue("date")
	pitchers, err := h.summaryService.PitchersForDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list pitchers failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"date":     date,
		"pitchers": pitchers,
	})
}

func (h *Handler) GetPitcherSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPitcherSummary")
	defer span.End()

	date := r.PathValue("date")
	pitcherID, err := parsePitcherID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.summaryService.SummaryForPitcher(ctx, date, pitcherID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pitcher summary failed", "date", date, "pitcher_id", pitcherID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetPitcherMovement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPitcherMovement")
	defer span.End()

	date := r.PathValue("date")
	pitcherID, err := parsePitcherID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.summaryService.MovementForPitcher(ctx, date, pitcherID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pitcher movement failed", "date", date, "pitcher_id", pitcherID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"date":       date,
		"pitcher_id": pitcherID,
		"points":     points,
	})
}

func parsePitcherID(r *http.Request) (int64, error) {
	raw := r.PathValue("pitcherID")
	pitcherID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || pitcherID <= 0 {
		return 0, fmt.Errorf("%w: pitcher id must be a positive integer", usecase.ErrInvalidInput)
	}
	return pitcherID, nil
}
