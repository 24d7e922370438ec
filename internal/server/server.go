// Package server is the thin HTTP adapter over the engine. Handlers map
// 1:1 onto validate-then-classify; no decision logic lives here.
package server

// #region imports
import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/dairylabs/milkmob/internal/engine"
	"github.com/dairylabs/milkmob/internal/state"
)

// #endregion

// #region server

// Server serves the engine over HTTP.
type Server struct {
	engine *engine.Engine
	router chi.Router
}

// New creates the HTTP adapter for the given engine.
func New(eng *engine.Engine) *Server {
	s := &Server{engine: eng}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/submissions", s.handleSubmit)
		r.Get("/mobs", s.handleMobs)
		r.Get("/mobs/{id}/stats", s.handleMobStats)
		r.Get("/tags/popular", s.handlePopularTags)
		r.Get("/healthz", s.handleHealth)
	})
	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[HTTP] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// #endregion server

// #region respond

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] encode response: %v", err)
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrDuplicateSubmission):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "an assignment already exists for this video"})
	case errors.Is(err, state.ErrConflict):
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "the store is busy, try again",
			Retryable: true,
		})
	case errors.Is(err, state.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// #endregion respond
