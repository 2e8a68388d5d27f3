// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/warband/internal/api"
	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/document"
	"github.com/starford/warband/internal/index"
	"github.com/starford/warband/internal/mcpserver"
	"github.com/starford/warband/internal/render"
	"github.com/starford/warband/internal/snapshot"
	"github.com/starford/warband/internal/sse"
	"github.com/starford/warband/internal/storage"
	"github.com/starford/warband/internal/warbandservice"
)

// runtime holds the components shared by every command.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	store  *storage.FS
	db     *index.DB
	broker *sse.Broker
	svc    *warbandservice.Service
}

func (rt *runtime) Close() {
	rt.broker.Close()
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("close index failed", slog.String("error", err.Error()))
	}
}

func setup(opts ...Option) (*runtime, error) {
	app := &application{logOutput: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("snapshots_path", cfg.Snapshots.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.Bool("include_inactive", cfg.Export.IncludeInactive),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure snapshot directory exists.
	if err := os.MkdirAll(cfg.Snapshots.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshots dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Snapshots.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	if dups := cat.Duplicates(); len(dups) > 0 {
		logger.Warn("catalog: duplicate modifier names, first list wins", slog.Any("names", dups))
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	// Run initial sync.
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// SSE broker doubles as the change notifier for snapshot subscriptions.
	broker := sse.NewBroker(2 * time.Second)
	source := snapshot.NewFileSource(store, broker, logger)
	svc := warbandservice.NewService(store, db, source, cat, document.Options{
		IncludeInactive: cfg.Export.IncludeInactive,
	})

	return &runtime{cfg: cfg, logger: logger, store: store, db: db, broker: broker, svc: svc}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// watch keeps the index current and fans snapshot changes out to subscribers.
func (rt *runtime) watch(ctx context.Context) error {
	return index.Watch(ctx, rt.db, rt.store, rt.cfg.Snapshots.Path, rt.logger, func(kind, id string) {
		rt.broker.PublishSnapshotEvent(kind, id)
	})
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, logger := rt.cfg, rt.logger

	// Build API router.
	apiRouter := api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, rt.broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback.
	g.Go(func() error {
		if err := rt.watch(gCtx); err != nil {
			logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been shut down so the
// watcher stops too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio while the watcher keeps the index
// current.
func RunMCP(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := rt.watch(ctx); err != nil {
			rt.logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
	}()

	rt.logger.Info("MCP server starting on stdio")
	return mcpserver.New(rt.svc).ServeStdio()
}

// Export renders the printable HTML document of one warband to w.
func Export(ctx context.Context, id string, w io.Writer, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	doc, err := rt.svc.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}
	if err := render.HTML(w, doc); err != nil {
		return fmt.Errorf("export %s: %w", id, err)
	}
	rt.logger.Info("warband exported", slog.String("id", id), slog.Int("cards", len(doc.Cards)))
	return nil
}

// Import copies the raw snapshot at path into the snapshot directory and
// returns the id it was stored under. An empty id is derived from the file
// name, or generated when the file name cannot serve as one.
func Import(ctx context.Context, path, id string, overwrite bool, opts ...Option) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("import: read %s: %w", path, err)
	}

	rt, err := setup(opts...)
	if err != nil {
		return "", err
	}
	defer rt.Close()

	if id == "" {
		id = storage.IDFromPath(path)
	}
	if id == "" {
		id = uuid.NewString()
	}

	sum, err := rt.svc.ImportSnapshot(ctx, id, data, overwrite)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", id, err)
	}
	rt.logger.Info("warband imported",
		slog.String("id", id),
		slog.String("name", sum.Name),
		slog.Float64("rating", sum.Rating))
	return id, nil
}
