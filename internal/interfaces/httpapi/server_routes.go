package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rankings/{ageGroup}/{gender}", handler.ListRankingsByCohort)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	registerInternalIngestRoutes(mux, handler, internalJobToken)
	registerInternalJobRoutes(mux, handler, internalJobToken)
	registerInternalReviewRoutes(mux, handler, internalJobToken)
	registerInternalMaintenanceRoutes(mux, handler, internalJobToken)
}

func registerInternalIngestRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/ingest", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestBatch)))
	mux.Handle("POST /v1/internal/ingest/{provider}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestProviderBatch)))
	mux.Handle("GET /v1/internal/conflicts", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListConflicts)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/rank", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRankingJob)))
	mux.Handle("POST /v1/internal/jobs/reresolve", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReresolveJob)))
	mux.Handle("POST /v1/internal/jobs/pull/{provider}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPullJob)))
}

func registerInternalReviewRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("GET /v1/internal/reviews", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListPendingReviews)))
	mux.Handle("POST /v1/internal/reviews/{reviewID}/approve", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ApproveReview)))
	mux.Handle("POST /v1/internal/reviews/{reviewID}/reject", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RejectReview)))
}

func registerInternalMaintenanceRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/teams/merge", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.MergeTeams)))
	mux.Handle("POST /v1/internal/teams/{teamID}/unmerge", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UnmergeTeam)))
}
