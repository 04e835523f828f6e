package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statsloop/pitchdash/internal/usecase"
)

type refreshJobRequest struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// RunRefreshJob reassembles datasets for the requested range. An empty body
// covers season start through the current date in the refresh window's
// timezone, or just the current date when no season start is configured.
func (h *Handler) RunRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshJob")
	defer span.End()

	req, err := h.decodeRefreshJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	today := h.window.DateOf(time.Now())
	if req.From == "" {
		req.From = h.seasonStart
		if req.From == "" || req.From > today {
			req.From = today
		}
	}
	if req.To == "" {
		req.To = today
	}
	if req.To < req.From {
		req.To = req.From
	}

	result, err := h.datasetService.AssembleRange(ctx, req.From, req.To)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh job failed", "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) decodeRefreshJobRequest(r *http.Request) (refreshJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req refreshJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return refreshJobRequest{}, nil
		}
		return refreshJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(r.Context(), req); err != nil {
		return refreshJobRequest{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
