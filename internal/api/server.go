// Package api exposes the analysis service over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/finsight/internal/config"
	"github.com/dgallion1/finsight/internal/index"
	"github.com/dgallion1/finsight/internal/llm"
	"github.com/dgallion1/finsight/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for finsight.
type Server struct {
	router   chi.Router
	analyzer *pipeline.Analyzer
	ingestor *pipeline.Ingestor
	ix       *index.Index
	llm      *llm.Client
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(analyzer *pipeline.Analyzer, ingestor *pipeline.Ingestor, ix *index.Index, llmClient *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		analyzer: analyzer,
		ingestor: ingestor,
		ix:       ix,
		llm:      llmClient,
		log:      log,
		cfg:      cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.FinsightAPIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/status", s.handleStatus)
		r.Post("/api/index/clear", s.handleIndexClear)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
