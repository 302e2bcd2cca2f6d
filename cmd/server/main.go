// QueryCamp - interactive SQL learning server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/querycamp/internal/api"
	"github.com/ashureev/querycamp/internal/catalog"
	"github.com/ashureev/querycamp/internal/challenge"
	"github.com/ashureev/querycamp/internal/config"
	"github.com/ashureev/querycamp/internal/identity"
	"github.com/ashureev/querycamp/internal/live"
	"github.com/ashureev/querycamp/internal/middleware"
	"github.com/ashureev/querycamp/internal/progress"
	"github.com/ashureev/querycamp/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	sessions, err := session.NewRegistry(session.Options{
		Dir:             cfg.SessionsDir,
		MaxHistoryItems: cfg.MaxHistoryItems,
	})
	if err != nil {
		slog.Error("Failed to initialize session registry", "error", err)
		os.Exit(1)
	}
	defer sessions.CloseAll()

	content := catalog.New()
	slog.Info("Challenge catalog loaded", "challenges", len(content.ListAll()))

	grader := challenge.NewGrader(sessions)
	progressStore := progress.NewStore(content)
	hub := live.NewHub()

	// Initialize handlers.
	baseHandler := api.NewHandler(sessions, content, grader, progressStore, hub)
	sessionHandler := api.NewSessionHandler(baseHandler)
	challengeHandler := api.NewChallengeHandler(baseHandler)
	healthHandler := api.NewHealthHandler(baseHandler)
	wsHandler := live.NewWebSocketHandler(hub, sessions, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// All routes use identity middleware (no auth needed).
	sessionHandler.RegisterRoutes(r)
	challengeHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/sessions/{sessionID}", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket watchers stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start sweeper worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartSweeper(ctx, sessions, cfg.SweepInterval, cfg.SessionMaxAge, hub.CloseSession)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	sessions.CloseAll()
	slog.Info("Server stopped successfully")
}
