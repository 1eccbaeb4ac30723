// Package ui provides the web-based view editor for LeapView.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapview/internal/editor/parts"
	"github.com/leapstack-labs/leapview/internal/loader"
	"github.com/leapstack-labs/leapview/internal/rules"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/internal/ui/notifier"
	"github.com/leapstack-labs/leapview/internal/ui/router"
	"github.com/leapstack-labs/leapview/internal/ui/workspace"
	"golang.org/x/sync/errgroup"
)

// Server is the main UI server.
type Server struct {
	store          state.Store
	workspace      *workspace.Workspace
	sessionStore   *sessions.CookieStore
	port           int
	watch          bool
	debounce       time.Duration
	definitionsDir string
	logger         *slog.Logger
	notifier       *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Store          state.Store
	Previewer      parts.Previewer
	Rules          *rules.Engine
	Port           int
	Watch          bool
	Debounce       time.Duration
	SessionSecret  string
	Logger         *slog.Logger
	DefinitionsDir string
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = loader.DefaultDebounce
	}

	notify := notifier.New()
	return &Server{
		store: cfg.Store,
		workspace: workspace.New(workspace.Config{
			Store:     cfg.Store,
			Previewer: cfg.Previewer,
			Rules:     cfg.Rules,
			Notifier:  notify,
			Logger:    logger,
		}),
		sessionStore:   sessionStore,
		port:           cfg.Port,
		watch:          cfg.Watch,
		debounce:       debounce,
		definitionsDir: cfg.DefinitionsDir,
		logger:         logger,
		notifier:       notify,
	}
}

// Handler builds the router with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.workspace, s.sessionStore, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Re-import definitions on change if enabled
	if s.watch && s.definitionsDir != "" {
		eg.Go(func() error {
			exts := []string{".yaml", ".yml"}
			return loader.Watch(egctx, s.definitionsDir, exts, s.debounce, s.logger, func(path string) {
				s.reimport(egctx, path)
			})
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		s.workspace.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// reimport loads the definitions directory into the store and pings the
// dashboard streams.
func (s *Server) reimport(ctx context.Context, path string) {
	s.logger.Debug("definition changed, re-importing", "file", path)

	result, err := loader.ImportDir(ctx, s.store, s.definitionsDir, s.logger)
	if err != nil {
		s.logger.Error("import failed", "error", err)
		return
	}
	s.logger.Info("definitions imported", "created", result.Created, "updated", result.Updated, "views", result.Views)
	s.notifier.Publish(notifier.TopicDefinitions)
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Workspace returns the registry of open editors.
func (s *Server) Workspace() *workspace.Workspace {
	return s.workspace
}
