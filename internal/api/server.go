// Package api exposes a normalized record store over HTTP.
//
// The server keeps a single shared store behind a mutex and offers endpoints
// to sync documents in, inspect and delete records, render the graph as DOT
// or SVG, and manage snapshots through an archive backend. All responses are
// JSON except the graph rendering endpoints.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/resograph/resograph/pkg/archive"
	"github.com/resograph/resograph/pkg/store"
)

// Server holds the HTTP server dependencies.
type Server struct {
	mu      sync.Mutex
	store   *store.Store
	archive archive.Archive
	logger  *log.Logger
}

// New creates a new API server around a store and snapshot archive.
func New(s *store.Store, a archive.Archive, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: s, archive: a, logger: logger}
}

// Routes builds the router with all endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sync", s.SyncDocument)
		r.Post("/reset", s.ResetStore)

		r.Get("/types", s.ListTypes)
		r.Get("/records/{type}", s.ListRecords)
		r.Get("/records/{type}/{id}", s.GetRecord)
		r.Delete("/records/{type}/{id}", s.DeleteRecord)

		r.Get("/graph.dot", s.GraphDOT)
		r.Get("/graph.svg", s.GraphSVG)

		r.Post("/snapshots", s.CreateSnapshot)
		r.Get("/snapshots", s.ListSnapshots)
		r.Get("/snapshots/{id}", s.GetSnapshot)
		r.Delete("/snapshots/{id}", s.DeleteSnapshot)
		r.Post("/snapshots/{id}/restore", s.RestoreSnapshot)
	})

	return r
}

// requestLogger logs method, path, status, and duration for each request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
