// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it connects the store, services,
// handlers and middleware, and owns the server's lifecycle.
//
// DEPENDENCY INJECTION FLOW:
//
//	serve command: config.Load → sqldb.Open → sqldb.Migrate → server.New
//	server.New:    TokenService, PasswordService
//	               → SnippetService, UserService (given *sqldb.DB as repositories)
//	               → SnippetHandler, UserHandler
//	               → chi router
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/config"
	"github.com/sakif/snippet-manager/internal/handler"
	"github.com/sakif/snippet-manager/internal/middleware"
	"github.com/sakif/snippet-manager/internal/repository/sqldb"
	"github.com/sakif/snippet-manager/internal/service"
)

// RootMessage is the plain-text body served on GET /.
const RootMessage = "Snippet Manager API Running"

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection once New succeeds; Close (or the
// end of Start) releases it.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqldb.DB
}

// New wires every layer on top of an opened, migrated database.
func New(cfg *config.Config, db *sqldb.DB, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	snippetService := service.NewSnippetService(db, logger)
	userService := service.NewUserService(db, tokens, auth.NewPasswordService(), logger)

	s.setupRoutes(tokens,
		handler.NewSnippetHandler(snippetService, logger),
		handler.NewUserHandler(userService, logger),
	)

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                         → liveness text
//	GET  /healthz                  → database ping
//	GET  /metrics                  → Prometheus exposition
//	POST /api/snippets             → create (token required)
//	GET  /api/snippets/public      → list public
//	GET  /api/snippets/{id}        → fetch (token optional)
//	POST /api/users/register       → create account
//	POST /api/users/login          → exchange credentials for a token
//	GET  /api/users/me             → current account (token required)
//
// MIDDLEWARE ORDER MATTERS:
// Logger and Metrics wrap Recoverer so a recovered panic is still logged
// and counted as a 500. RequestSize caps every body before any handler
// starts decoding it.
func (s *Server) setupRoutes(tokens *auth.TokenService, snippets *handler.SnippetHandler, users *handler.UserHandler) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.TokenHeader},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	s.router.Use(chimiddleware.RequestSize(s.config.HTTP.MaxBodyBytes))

	requireAuth := auth.RequireAuth(tokens, s.logger)
	optionalAuth := auth.OptionalAuth(tokens, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(RootMessage))
	})
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/snippets", func(r chi.Router) {
			r.With(requireAuth).Post("/", snippets.HandleCreate)
			r.Get("/public", snippets.HandleListPublic)
			r.With(optionalAuth).Get("/{id}", snippets.HandleGetByID)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", users.HandleRegister)
			r.Post("/login", users.HandleLogin)
			r.With(requireAuth).Get("/me", users.HandleMe)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Handler exposes the fully wired router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully:
//  1. Stop accepting new connections
//  2. Wait up to 30s for in-flight requests
//  3. Close the database
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.HTTP.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.HTTP.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.HTTP.Port)),
			slog.String("db_driver", s.db.Driver()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
