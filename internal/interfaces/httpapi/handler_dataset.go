package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/statsloop/pitchdash/internal/domain/pitch"
	"github.com/statsloop/pitchdash/internal/platform/jsontree"
	"github.com/statsloop/pitchdash/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

type datasetDTO struct {
	Date      string      `json:"date,omitempty"`
	Columns   []string    `json:"columns"`
	RowCount  int         `json:"row_count"`
	Rows      []pitch.Row `json:"rows"`
	FetchedAt time.Time   `json:"fetched_at,omitempty"`
}

func (h *Handler) GetDatasetByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDatasetByDate")
	defer span.End()

	date := r.PathValue("date")
	snapshot, err := h.datasetService.DatasetForDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get dataset failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, datasetDTO{
		Date:      snapshot.Date,
		Columns:   snapshot.Dataset.Columns,
		RowCount:  len(snapshot.Dataset.Rows),
		Rows:      snapshot.Dataset.Rows,
		FetchedAt: snapshot.FetchedAt,
	})
}

func (h *Handler) GetDatasetByRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDatasetByRange")
	defer span.End()

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(ctx, w, fmt.Errorf("%w: from and to query parameters are required", usecase.ErrInvalidInput))
		return
	}

	dataset, err := h.datasetService.DatasetForRange(ctx, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "get range dataset failed", "from", from, "to", to, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, datasetDTO{
		Columns:  dataset.Columns,
		RowCount: len(dataset.Rows),
		Rows:     dataset.Rows,
	})
}

func (h *Handler) ExportDatasetCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportDatasetCSV")
	defer span.End()

	date := r.PathValue("date")
	snapshot, err := h.datasetService.DatasetForDate(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "export dataset failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := writeDatasetCSV(buf, snapshot.Dataset); err != nil {
		h.logger.ErrorContext(ctx, "encode dataset csv failed", "date", date, "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "pitches-"+date+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeDatasetCSV(buf *bytebufferpool.ByteBuffer, dataset pitch.Dataset) error {
	writer := csv.NewWriter(buf)
	if err := writer.Write(dataset.Columns); err != nil {
		return err
	}

	record := make([]string, len(dataset.Columns))
	for _, row := range dataset.Rows {
		for i, column := range dataset.Columns {
			record[i] = jsontree.FormatScalar(row[column])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
