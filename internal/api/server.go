// Package api serves the compilation engine over HTTP: compile,
// parse, translate and validate endpoints, cache and history access,
// and a server-sent event stream. Authentication is bearer-token
// based with per-route scopes; with no credentials configured the
// server runs open for local use.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mattjoyce/glossa/internal/auth"
	"github.com/mattjoyce/glossa/internal/cache"
	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/events"
	"github.com/mattjoyce/glossa/internal/history"
	"github.com/mattjoyce/glossa/internal/semantic"
)

//go:generate mockgen -destination=mocks/mock_api.go -package=mocks github.com/mattjoyce/glossa/internal/api Engine,HistoryStore

// Engine is the slice of the DSL handle the server drives.
type Engine interface {
	Name() string
	DefaultLanguage() string
	SupportedLanguages() []string
	Actions() []string
	Parse(text, language string) (*semantic.Node, error)
	Render(node *semantic.Node, language string) (string, error)
	Compile(req compiler.Request) (compiler.Result, error)
	Validate(input string) ([]diag.Diagnostic, error)
	CacheStats() cache.Stats
	ClearCache()
}

// HistoryStore reads persisted compilations. A nil store means
// history is disabled and its endpoints return 404.
type HistoryStore interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	Get(ctx context.Context, id string) (history.Entry, error)
}

// Config carries the server settings.
type Config struct {
	Listen  string
	Version string

	// APIKey and Tokens are the accepted credentials. With neither
	// set every request is granted the wildcard scope.
	APIKey string
	Tokens []auth.TokenConfig

	// MinConfidence is the translate threshold applied when a
	// request does not name its own.
	MinConfidence float64
}

// Server is the HTTP front end.
type Server struct {
	config    Config
	engine    Engine
	history   HistoryStore
	hub       *events.Hub
	logger    *slog.Logger
	router    *chi.Mux
	server    *http.Server
	startedAt time.Time
}

// New creates the server. history may be nil when persistence is off.
func New(cfg Config, engine Engine, hist HistoryStore, hub *events.Hub, logger *slog.Logger) *Server {
	s := &Server{
		config:    cfg,
		engine:    engine,
		history:   hist,
		hub:       hub,
		logger:    logger,
		startedAt: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server until ctx is cancelled, then shuts down
// gracefully. It blocks.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:        s.config.Listen,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// No write timeout: /events connections stay open until the
		// client goes away.
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.config.Listen)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/openapi.json", s.handleOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/v1", func(r chi.Router) {
			r.With(s.requireScopes(auth.ScopeCompileRW)).Post("/compile", s.handleCompile)
			r.With(s.requireScopes(auth.ScopeCompileRO)).Post("/parse", s.handleParse)
			r.With(s.requireScopes(auth.ScopeCompileRO)).Post("/translate", s.handleTranslate)
			r.With(s.requireScopes(auth.ScopeCompileRO)).Post("/validate", s.handleValidate)
			r.With(s.requireScopes(auth.ScopeCompileRO)).Get("/languages", s.handleLanguages)
			r.With(s.requireScopes(auth.ScopeCompileRO)).Get("/actions", s.handleActions)
			r.With(s.requireScopes(auth.ScopeCacheRO)).Get("/cache", s.handleCacheStats)
			r.With(s.requireScopes(auth.ScopeCacheRW)).Delete("/cache", s.handleCacheClear)
			r.With(s.requireScopes(auth.ScopeHistoryRO)).Get("/history", s.handleHistoryList)
			r.With(s.requireScopes(auth.ScopeHistoryRO)).Get("/history/{id}", s.handleHistoryGet)
		})

		r.With(s.requireScopes(auth.ScopeEventsRO)).Get("/events", s.handleEvents)
	})

	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr,
		)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
