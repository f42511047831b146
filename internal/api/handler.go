// internal/api/handler.go
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github-top-tracker/internal/apperrors"
	"github-top-tracker/internal/query"
)

// Handler is the container for API dependencies.
type Handler struct {
	queries *query.Service
	logger  *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(queries *query.Service, logger *slog.Logger) http.Handler {
	h := &Handler{
		queries: queries,
		logger:  logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/repos/top100", h.getTop100)
	r.Get("/{owner}/{name}/activity", h.getActivity)

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getTop100 handles the request for yesterday's ranked snapshot.
// GET /repos/top100
func (h *Handler) getTop100(w http.ResponseWriter, r *http.Request) {
	repos, err := h.queries.Top100(r.Context())
	if err != nil {
		h.logger.Error("Failed to get top repositories", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]repoResponse, 0, len(repos))
	for _, repo := range repos {
		out = append(out, toRepoResponse(repo))
	}
	respondWithJSON(w, http.StatusOK, out)
}

// getActivity handles the request for a repository's daily activity.
// GET /{owner}/{name}/activity?since=YYYY-MM-DD&until=YYYY-MM-DD
func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	name := chi.URLParam(r, "name")

	since, err := parseDateParam(r, "since")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'since' parameter. Must be a YYYY-MM-DD date.")
		return
	}
	until, err := parseDateParam(r, "until")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'until' parameter. Must be a YYYY-MM-DD date.")
		return
	}

	days, err := h.queries.Activity(r.Context(), owner, name, since, until)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return
		}
		h.logger.Error("Failed to get repository activity", "owner", owner, "repo", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]activityResponse, 0, len(days))
	for _, day := range days {
		out = append(out, toActivityResponse(day))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	return time.Parse("2006-01-02", value)
}
