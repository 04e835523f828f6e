package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDashboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/pitches", handler.GetDatasetByRange)
	mux.HandleFunc("GET /v1/dates/{date}/pitches", handler.GetDatasetByDate)
	mux.HandleFunc("GET /v1/dates/{date}/pitches.csv", handler.ExportDatasetCSV)
	mux.HandleFunc("GET /v1/dates/{date}/pitchers", handler.ListPitchersByDate)
	mux.HandleFunc("GET /v1/dates/{date}/pitchers/{pitcherID}/summary", handler.GetPitcherSummary)
	mux.HandleFunc("GET /v1/dates/{date}/pitchers/{pitcherID}/movement", handler.GetPitcherMovement)
	mux.HandleFunc("GET /v1/pitchers/{pitcherID}/bio", handler.GetPitcherBio)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshJob)))
}
