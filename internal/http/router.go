package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"transcript-studio/internal/observability"
	"transcript-studio/internal/observability/metrics"
)

// NewRouter constructs the HTTP router for the service.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observability.RequestMiddleware(metrics.DefaultMetrics))

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/transcribe", s.handleTranscribe)
		r.Post("/rewrite", s.handleRewrite)
		r.Post("/convert", s.handleConvert)
		r.Post("/export", s.handleExport)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Get("/search", s.handleSearchSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/rewrite-result", s.handleApplyRewrite)
			r.Post("/restore", s.handleRestoreSession)
			r.Post("/reset", s.handleResetSession)

			r.Route("/paragraphs/{pid}", func(r chi.Router) {
				r.Patch("/", s.handleEditParagraph)
				r.Post("/insert-after", s.handleInsertParagraph)
				r.Delete("/", s.handleDeleteParagraph)
			})
		})
	})

	return r
}
