package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/predictions/upload", handler.UploadPredictions)
	mux.HandleFunc("POST /v1/predictions", handler.IngestPredictions)
	mux.HandleFunc("GET /v1/predictions", handler.ListPredictions)
	mux.HandleFunc("GET /v1/predictions/reconciled", handler.ListReconciledPredictions)
	mux.HandleFunc("GET /v1/predictions/reconciled/export", handler.ExportReconciledPredictions)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-scores", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshScoresJob)))
}
