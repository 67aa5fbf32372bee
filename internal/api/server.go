// Package api provides the HTTP API server and handlers for the MoodShelf application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/moodshelf/moodshelf-server/internal/http/response"
	"github.com/moodshelf/moodshelf-server/internal/ratelimit"
	"github.com/moodshelf/moodshelf-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions        SessionService
	recommendations RecommendationService
	library         LibraryService
	history         HistoryService
	validator       *validation.Validator
	limiter         *ratelimit.KeyedLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// limiter may be nil to disable rate limiting (tests).
func NewServer(sessions SessionService, recommendations RecommendationService, library LibraryService, history HistoryService, limiter *ratelimit.KeyedLimiter, logger *slog.Logger) *Server {
	s := &Server{
		sessions:        sessions,
		recommendations: recommendations,
		library:         library,
		history:         history,
		validator:       validation.New(),
		limiter:         limiter,
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// The single active mood session.
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Put("/", s.handleCommitSession)
			r.Patch("/", s.handleTuneSession)
			r.Delete("/", s.handleClearSession)
		})

		// Recommendations for the active session.
		r.Get("/recommendations", s.handleGetRecommendations)

		// Library mirror maintenance.
		r.Route("/library", func(r chi.Router) {
			r.Get("/", s.handleGetLibrary)
			r.Put("/", s.handleReplaceLibrary)
			r.Patch("/", s.handleUpsertLibrary)
			r.Delete("/{id}", s.handleRemoveLibraryItem)
		})

		// Reading history.
		r.Route("/history", func(r chi.Router) {
			r.Put("/progress", s.handleUpsertProgress)
			r.Delete("/progress/{id}", s.handleDeleteProgress)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]any{
		"status":        "healthy",
		"library_count": s.library.Count(),
	}, s.logger)
}
