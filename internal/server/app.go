// Package server initializes and runs the syncpad HTTP server.
// It wires storage, handlers and middleware, and handles graceful
// shutdown on SIGINT/SIGTERM.
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

	"github.com/iudanet/syncpad/internal/server/config"
	"github.com/iudanet/syncpad/internal/server/handlers"
	"github.com/iudanet/syncpad/internal/server/middleware"
	"github.com/iudanet/syncpad/internal/server/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// App связывает конфигурацию, хранилище и HTTP-сервер
type App struct {
	config  *config.Config
	logger  *slog.Logger
	storage *sqlite.Storage
	server  *http.Server
}

// NewApp creates the application: opens the database, runs migrations
// and builds the HTTP routing table.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	jwtConfig := handlers.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}

	users := store.Users()
	authHandler := handlers.NewAuthHandler(logger, users, jwtConfig)
	usersHandler := handlers.NewUsersHandler(logger, users)
	notesHandler := handlers.NewNotesHandler(logger, store.Notes(), users)
	todosHandler := handlers.NewTodosHandler(logger, store.Todos(), users)
	healthHandler := handlers.NewHealthHandler(logger)

	protect := middleware.AuthMiddleware(logger, jwtConfig)
	rate := middleware.RateLimitMiddleware(cfg.AuthRateLimit, cfg.AuthRateWindow, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	// Public auth routes, rate limited против перебора паролей
	mux.Handle("POST /api/auth/register", rate(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", rate(http.HandlerFunc(authHandler.Login)))

	// Protected routes
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/auth/logout", protect(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("PUT /api/users/profile", protect(http.HandlerFunc(usersHandler.UpdateProfile)))
	mux.Handle("PUT /api/users/sync", protect(http.HandlerFunc(usersHandler.UpdateLastSynced)))

	mux.Handle("GET /api/notes", protect(http.HandlerFunc(notesHandler.List)))
	mux.Handle("POST /api/notes", protect(http.HandlerFunc(notesHandler.Create)))
	mux.Handle("POST /api/notes/sync", protect(http.HandlerFunc(notesHandler.Sync)))
	mux.Handle("GET /api/notes/updates", protect(http.HandlerFunc(notesHandler.Updates)))
	mux.Handle("GET /api/notes/{id}", protect(http.HandlerFunc(notesHandler.Get)))
	mux.Handle("PUT /api/notes/{id}", protect(http.HandlerFunc(notesHandler.Update)))
	mux.Handle("DELETE /api/notes/{id}", protect(http.HandlerFunc(notesHandler.Delete)))

	mux.Handle("GET /api/todos", protect(http.HandlerFunc(todosHandler.List)))
	mux.Handle("POST /api/todos", protect(http.HandlerFunc(todosHandler.Create)))
	mux.Handle("POST /api/todos/sync", protect(http.HandlerFunc(todosHandler.Sync)))
	mux.Handle("GET /api/todos/updates", protect(http.HandlerFunc(todosHandler.Updates)))
	mux.Handle("GET /api/todos/due", protect(http.HandlerFunc(todosHandler.Due)))
	mux.Handle("GET /api/todos/{id}", protect(http.HandlerFunc(todosHandler.Get)))
	mux.Handle("PUT /api/todos/{id}", protect(http.HandlerFunc(todosHandler.Update)))
	mux.Handle("PUT /api/todos/{id}/toggle", protect(http.HandlerFunc(todosHandler.Toggle)))
	mux.Handle("DELETE /api/todos/{id}", protect(http.HandlerFunc(todosHandler.Delete)))

	var root http.Handler = mux
	root = middleware.LoggingWithSkip(logger, []string{"/health"})(root)
	root = middleware.RecoveryMiddleware(logger)(root)

	return &App{
		config:  cfg,
		logger:  logger,
		storage: store,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           root,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or an
// OS signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	errC := make(chan error, 1)

	go func() {
		app.logger.Info("starting server", "addr", app.config.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		app.storage.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("shutdown error", "error", err)
	}

	if err := app.storage.Close(); err != nil {
		return fmt.Errorf("storage close error: %w", err)
	}

	return nil
}
