// File path: internal/api/server.go
// Package api is the HTTP read/write surface (§6) implemented with
// go-chi/chi/v5, the router the teacher's internal/api/server.go uses,
// following the same Config/NewServer/routes() construction shape.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/coddog/coddog/internal/common"
	"github.com/coddog/coddog/internal/hashfp"
	"github.com/coddog/coddog/internal/search"
	"github.com/coddog/coddog/internal/store"
)

// Config configures one Server instance.
type Config struct {
	Address     string
	CORSOrigins []string
	UploadRoot  string
	Seed        hashfp.Seed
	WindowSize  int
}

// DefaultConfig returns a Config usable for local development.
func DefaultConfig() Config {
	return Config{
		Address:     ":8080",
		CORSOrigins: []string{"*"},
		UploadRoot:  "./data/uploads",
		WindowSize:  8,
	}
}

// Merge overlays non-zero fields of override onto c.
func (c Config) Merge(override Config) Config {
	result := c
	if override.Address != "" {
		result.Address = override.Address
	}
	if len(override.CORSOrigins) > 0 {
		result.CORSOrigins = override.CORSOrigins
	}
	if override.UploadRoot != "" {
		result.UploadRoot = override.UploadRoot
	}
	if override.WindowSize > 0 {
		result.WindowSize = override.WindowSize
	}
	if override.Seed != (hashfp.Seed{}) {
		result.Seed = override.Seed
	}
	return result
}

// Server holds everything the HTTP handlers need.
type Server struct {
	cfg    Config
	store  *store.Store
	search *search.Index
	router chi.Router
}

// NewServer wires a Server and registers its routes.
func NewServer(cfg Config, st *store.Store, idx *search.Index) *Server {
	s := &Server{cfg: cfg, store: st, search: idx}
	s.router = s.routes()
	return s
}

// Handler exposes the underlying chi router for http.ListenAndServe.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Post("/symbols", s.handleSearchSymbols)
	r.Get("/symbols/{slug}", s.handleGetSymbol)
	r.Get("/symbols/{slug}/asm", s.handleGetAsm)
	r.Get("/symbols/{slug}/match", s.handleGetMatch)
	r.Post("/symbols/{slug}/submatch", s.handleSubmatch)

	r.Get("/sources/{slug}", s.handleGetSource)
	r.Get("/sources/{slug}/cluster", s.handleClusterSource)

	r.Get("/projects", s.handleListProjects)
	r.Post("/projects", s.handleCreateProject)
	r.Get("/projects/{id}", s.handleGetProject)
	r.Patch("/projects/{id}", s.handleUpdateProject)
	r.Delete("/projects/{id}", s.handleDeleteProject)

	r.Post("/upload", s.handleUpload)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func loggingMiddleware(next http.Handler) http.Handler {
	logger := common.Logger()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("api: request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
