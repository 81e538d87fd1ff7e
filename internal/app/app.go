// Package app is the composition root for the web server. It loads
// configuration, initializes logging and telemetry, loads the
// frequency corpus and wires the handler tree.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"wordtrend/internal/config"
	apierrors "wordtrend/internal/errors"
	"wordtrend/internal/freqs"
	"wordtrend/internal/infrastructure"
	custommw "wordtrend/internal/middleware"
	"wordtrend/internal/services"
	transporthttp "wordtrend/internal/transport/http"
	ws "wordtrend/internal/websocket"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

// Application bundles the long-lived server dependencies
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Server *http.Server

	logger        *slog.Logger
	otelProviders *infrastructure.OTelProviders
	hub           *ws.Hub
	freqsService  *freqs.Service
	exportService *services.ExportService
	healthService *services.HealthService
}

// NewApplication builds a fully wired application from configuration
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		logger:        logger,
		otelProviders: otelProviders,
	}
	app.initializeServices()
	app.createServer()

	return app, nil
}

// initializeServices wires the service layer
func (a *Application) initializeServices() {
	a.hub = ws.NewHub(a.logger)
	a.freqsService = freqs.NewService(a.logger)
	a.exportService = services.NewExportService(a.freqsService, a.hub, a.Config.Export, a.logger)
	a.healthService = services.NewHealthService(Version, a.freqsService, a.hub, a.logger)
}

// loadCorpus loads the frequency corpus and announces it to connected
// dashboards. A missing corpus is not fatal; the health endpoint
// reports degraded until one appears.
func (a *Application) loadCorpus(ctx context.Context) {
	if err := a.freqsService.Reload(ctx, a.Paths.FreqsDir); err != nil {
		a.logger.WarnContext(ctx, "Starting without frequency corpus",
			slog.String("dir", a.Paths.FreqsDir),
			slog.String("error", err.Error()))
		return
	}
	if snapshot, err := a.freqsService.Snapshot(); err == nil {
		a.hub.BroadcastDatasetReload(snapshot.Days(), snapshot.Words())
	}
}

// setupRouter builds the middleware chain and mounts the handlers
func (a *Application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.logger))
	r.Use(custommw.Recoverer(a.logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.logger)

	exportHandler := transporthttp.NewExportHandler(a.exportService, a.freqsService, a.logger, errorHandler)
	dataHandler := transporthttp.NewDataHandler(a.freqsService, a.logger, errorHandler)
	healthHandler := transporthttp.NewHealthHandler(a.healthService, a.logger)
	metricsHandler := transporthttp.NewMetricsHandler(a.otelProviders.PrometheusHTTP)
	wsHandler := transporthttp.NewWebSocketHandler(a.hub, a.Config.Security.AllowedOrigins, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", healthHandler.Routes())
		r.Mount("/export", exportHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Get("/freqs", dataHandler.GetTopWords)
		r.Get("/trends", dataHandler.GetTrends)
	})
	r.Mount("/metrics", metricsHandler.Routes())
	r.Get("/ws", wsHandler.ServeWS)

	return r
}

// createServer builds the HTTP server around the router
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.setupRouter(),
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the server and blocks until shutdown completes
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.hub.Start()
	a.loadCorpus(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Server starting",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop()
	})

	return g.Wait()
}

// Stop gracefully shuts the server and its dependencies down
func (a *Application) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Server shutting down")

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	a.hub.Stop()
	if a.otelProviders != nil {
		if err := a.otelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("log file close: %w", err))
	}

	return errors.Join(errs...)
}
