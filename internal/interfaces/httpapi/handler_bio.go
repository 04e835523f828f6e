package httpapi

import "net/http"

func (h *Handler) GetPitcherBio(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPitcherBio")
	defer span.End()

	pitcherID, err := parsePitcherID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	person, err := h.bioService.PersonByID(ctx, pitcherID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pitcher bio failed", "pitcher_id", pitcherID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, person)
}
