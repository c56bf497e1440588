// Package main initializes and starts the diet journal HTTP server,
// setting up configuration, logging, the database, repositories,
// services, the report generator and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/DietJournal/internal/config"
	"github.com/atinyakov/DietJournal/internal/db"
	"github.com/atinyakov/DietJournal/internal/logger"
	"github.com/atinyakov/DietJournal/internal/report"
	"github.com/atinyakov/DietJournal/internal/repository"
	"github.com/atinyakov/DietJournal/internal/server/handler/http"
	"github.com/atinyakov/DietJournal/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(realMain())
}

// realMain runs the server and returns the process exit code. Deferred
// cleanup, including the final log sync, completes before main exits.
func realMain() int {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		return 1
	}
	defer func() { _ = log.Log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, options, log.Log)
}

// serve runs the server and maps its outcome to an exit code.
func serve(ctx context.Context, options *config.Options, zapLogger *zap.Logger) int {
	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Error("server stopped", zap.Error(err))
		return 1
	}
	zapLogger.Info("server stopped")
	return 0
}

// run serves the API until ctx is cancelled, then drains open requests.
func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	// Open the store and apply migrations.
	conn, err := db.Open(options.Driver, options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init database: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Initialize repositories.
	userRepo := repository.NewUserRepository(conn)
	stageRepo := repository.NewStageRepository(conn)
	entryRepo := repository.NewEntryRepository(conn)
	productRepo := repository.NewProductRepository(conn)

	// Initialize business-logic services.
	identityService := service.NewIdentityService(userRepo, stageRepo)
	stageService := service.NewStageService(stageRepo, time.Now)
	entryService := service.NewEntryService(entryRepo)
	productService := service.NewProductService(productRepo)
	reports := report.NewGenerator(entryService, stageService, options.ReportsDir, zapLogger.Named("report"))

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth:    &http.AuthHandler{Identity: identityService, Log: zapLogger},
		Stage:   &http.StageHandler{Stages: stageService, Log: zapLogger},
		Entry:   &http.EntryHandler{Entries: entryService, Log: zapLogger},
		Product: &http.ProductHandler{Products: productService, Log: zapLogger},
		Report:  &http.ReportHandler{Reports: reports, Log: zapLogger},
		Stats:   &http.StatsHandler{Stats: entryService, Log: zapLogger},
		Health:  &http.HealthHandler{DB: conn, Log: zapLogger},
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Port),
			zap.String("driver", options.Driver),
			zap.String("reports_dir", options.ReportsDir),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
