// Package api exposes the lineage engine over HTTP for external viewers.
//
// The API is a thin surface over the pipeline and the project store; all
// graph semantics live in pkg. Request and response bodies use the same
// JSON shapes that are persisted, so a browser client can feed responses
// straight back into save calls.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linealens/linealens/pkg/pipeline"
	"github.com/linealens/linealens/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	runner *pipeline.Runner
	store  *store.Store
	logger *log.Logger
	router chi.Router
}

// NewServer wires the API routes over the given store.
func NewServer(st *store.Store, logger *log.Logger) *Server {
	s := &Server{
		runner: pipeline.NewRunner(st, logger),
		store:  st,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/lineage", s.handleParse)
		r.Post("/lineage/filter", s.handleFilter)
		r.Post("/lineage/trace", s.handleTrace)

		r.Get("/projects", s.handleListProjects)
		r.Post("/projects", s.handleSaveProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Delete("/projects/{id}", s.handleDeleteProject)
		r.Get("/projects/{id}/export", s.handleExportProject)

		r.Get("/backup", s.handleExportBackup)
		r.Post("/backup", s.handleImportBackup)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("api listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}
