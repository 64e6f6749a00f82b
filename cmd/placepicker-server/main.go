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
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"placepicker.dev/internal/config"
	"placepicker.dev/internal/report"
	"placepicker.dev/internal/server"
	"placepicker.dev/internal/utils"
)

const version = "1.0.0"

func main() {
	flag.Int("port", 4000, "API server port")
	flag.String("env", "development", "Environment (development|staging|production)")
	flag.String("base-url", "", "Public base URL of this server")
	configFile := flag.String("config-file", "", "Path to a JSON, YAML or .env configuration file")
	flag.Parse()

	if err := config.ValidateConfigFlags(flag.Args()); err != nil {
		fmt.Println("Error:", err)
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile, config.FlagOverrides(flag.CommandLine))
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := report.SetupSentry(cfg.Env, version); err != nil {
		logger.Error("failed to initialize sentry", "error", err)
	}
	defer report.FlushSentry()
	report.ConfigureScope(cfg.Env, version, "server")

	if err := run(cfg, logger); err != nil {
		report.ReportError(err, sentry.LevelFatal)
		report.FlushSentry()
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := utils.EnsureDirectory(cfg.ImagesDir, logger); err != nil {
		return fmt.Errorf("images dir: %w", err)
	}

	userPlaces, closeStore, err := server.OpenUserPlaces(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close user places store", "error", err)
		}
	}()

	app := server.New(cfg, logger, userPlaces, version)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.Routes(ctx),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "storage", userPlaces.Name())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
