package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/edgestake/pickwire/internal/api/middleware"
	"github.com/edgestake/pickwire/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler     http.HandlerFunc
	ListJobsHandler   http.HandlerFunc
	GetJobHandler     http.HandlerFunc
	JobStatusHandler  http.HandlerFunc
	RequeueJobHandler http.HandlerFunc
	QueueStatsHandler http.HandlerFunc

	ListPicksHandler http.HandlerFunc
	GetPickHandler   http.HandlerFunc
	GamePickHandler  http.HandlerFunc

	GetSettingsHandler    http.HandlerFunc
	UpdateSettingsHandler http.HandlerFunc

	CreateKeyHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	RevokeKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/jobs", orNotImplemented(deps.ListJobsHandler))
		r.Get("/api/v1/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))
		r.Get("/api/v1/jobs/{jobID}/status", orNotImplemented(deps.JobStatusHandler))
		r.Post("/api/v1/jobs/{jobID}/requeue", orNotImplemented(deps.RequeueJobHandler))
		r.Get("/api/v1/queue", orNotImplemented(deps.QueueStatsHandler))

		r.Get("/api/v1/picks", orNotImplemented(deps.ListPicksHandler))
		r.Get("/api/v1/picks/{pickID}", orNotImplemented(deps.GetPickHandler))
		r.Get("/api/v1/games/{gameID}/pick", orNotImplemented(deps.GamePickHandler))

		r.Get("/api/v1/settings", orNotImplemented(deps.GetSettingsHandler))
		r.Put("/api/v1/settings", orNotImplemented(deps.UpdateSettingsHandler))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
