package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/statsloop/pitchdash/internal/platform/freshness"
	"github.com/statsloop/pitchdash/internal/platform/logging"
	"github.com/statsloop/pitchdash/internal/usecase"
)

type Handler struct {
	datasetService *usecase.DatasetService
	summaryService *usecase.SummaryService
	bioService     *usecase.BioService
	window         freshness.Window
	seasonStart    string
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	datasetService *usecase.DatasetService,
	summaryService *usecase.SummaryService,
	bioService *usecase.BioService,
	window freshness.Window,
	seasonStart string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		datasetService: datasetService,
		summaryService: summaryService,
		bioService:     bioService,
		window:         window,
		seasonStart:    seasonStart,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
