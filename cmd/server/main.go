package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bioroute/internal/catalog"
	"bioroute/internal/config"
	"bioroute/internal/ctxlog"
	"bioroute/internal/engine"
	"bioroute/internal/handler"
	"bioroute/internal/hub"
	"bioroute/internal/metrics"
	"bioroute/internal/repository/sqlite"
	"bioroute/internal/service"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Config file path (default: search path)")
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	catalogPath := flag.String("catalog", "", "Technologies YAML file (default: embedded catalog)")
	templatesPath := flag.String("templates", "", "Templates YAML file (default: embedded templates)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "Log format: text or json")
	flag.Parse()

	cfg, source, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *catalogPath != "" {
		cfg.Catalog.TechnologiesPath = *catalogPath
	}
	if *templatesPath != "" {
		cfg.Catalog.TemplatesPath = *templatesPath
	}
	if *logLevel != "" {
		cfg.Logging.Level = strings.ToLower(*logLevel)
	}
	if *logFormat != "" {
		cfg.Logging.Format = strings.ToLower(*logFormat)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := ctxlog.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)

	if source == "" {
		source = "defaults"
	}
	logger.Info("starting bioroute server", "config", source, "summary", cfg.Summary())

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database opened", "path", cfg.Database.Path)

	m := metrics.New()

	// Load the technology catalog
	store, err := catalog.NewStore(catalog.Options{
		TechnologiesPath:  cfg.Catalog.TechnologiesPath,
		TemplatesPath:     cfg.Catalog.TemplatesPath,
		VersionConstraint: cfg.Catalog.VersionConstraint,
		Logger:            logger.With("component", "catalog"),
	})
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	snap := store.Current()
	m.ObserveCatalog(snap.Catalog.Version(), snap.Catalog.Len(), nil)

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New(logger.With("component", "hub"), hub.WithAllowedOrigin(cfg.Server.CORSAllowedOrigin))
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return
			}
		}
	}()

	store.OnReload(func(snap *catalog.Snapshot, err error) {
		if err != nil {
			m.ObserveCatalog("", 0, err)
			return
		}
		m.ObserveCatalog(snap.Catalog.Version(), snap.Catalog.Len(), nil)
		eventBus.Publish(service.Event{
			Type: service.EventCatalogReloaded,
			Payload: map[string]interface{}{
				"version":      snap.Catalog.Version(),
				"technologies": snap.Catalog.Len(),
			},
		})
	})

	if cfg.Catalog.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("catalog watcher stopped", "error", err)
			}
		}()
	}

	// Initialize services
	eng := engine.New(engine.WithLimits(cfg.Engine))
	routeSvc := service.NewRouteService(store, eng, m)
	scenarioSvc := service.NewScenarioService(repo, routeSvc, eventBus, m)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health(routeSvc, repo))
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /api/events", sseHub)
	handler.NewRouteHandler(routeSvc).Register(mux)
	handler.NewScenarioHandler(scenarioSvc).Register(mux)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS(cfg.Server.CORSAllowedOrigin),
		handler.Logger(logger),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
