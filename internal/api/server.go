package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/qbank/internal/config"
	"github.com/dgallion1/qbank/internal/engine"
	"github.com/dgallion1/qbank/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for qbank.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	engine       *engine.Engine
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, eng *engine.Engine, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		engine:       eng,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public read-only endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/questions", s.handleQuestions)
	r.Get("/api/stats", s.handleStats)

	// Authenticated endpoints that replace the corpus.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.QbankAPIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/snapshot/reload", s.handleReloadSnapshot)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
