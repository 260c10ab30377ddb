package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/predictions", handler.CreatePrediction)
	mux.HandleFunc("GET /v1/picks", handler.ListPicks)
	mux.HandleFunc("GET /v1/picks/{pickID}", handler.GetPick)
	mux.HandleFunc("GET /v1/performance", handler.GetPerformance)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/ingest/odds", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestOddsSnapshots)))
	mux.Handle("POST /v1/internal/ingest/results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestMatchResults)))
	mux.Handle("POST /v1/internal/jobs/resolve", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResolveJob)))
}
