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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/jusunglee/railmap-go/api/handlers"
	"github.com/jusunglee/railmap-go/internal/config"
	"github.com/jusunglee/railmap-go/internal/logging"
	"github.com/jusunglee/railmap-go/internal/routing"
	"github.com/jusunglee/railmap-go/pkg/transit"
)

func main() {
	var (
		configPath     = flag.String("config", "", "Config file (default: config.yml if present)")
		port           = flag.Int("port", 0, "Server port")
		stations       = flag.String("stations", "", "Stations JSON file or URL")
		lines          = flag.String("lines", "", "Lines JSON file or URL")
		reloadInterval = flag.Duration("reload-interval", 0, "Reload interval for station and line data (0 loads once)")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags win over the file and the environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "stations":
			cfg.Data.Stations = *stations
		case "lines":
			cfg.Data.Lines = *lines
		case "reload-interval":
			cfg.Data.ReloadInterval = *reloadInterval
		}
	})
	if err := config.Validate(cfg); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, logger *slog.Logger) error {
	clientConfig := transit.Config{
		StationsSource: cfg.Data.Stations,
		LinesSource:    cfg.Data.Lines,
		ReloadInterval: cfg.Data.ReloadInterval,
		HTTPTimeout:    cfg.Data.HTTPTimeout,
		CacheSize:      cfg.Cache.Size,
		CacheTTL:       cfg.Cache.TTL,
		Logger:         logger,
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.Data.HTTPTimeout)
	client, err := transit.NewLocal(loadCtx, clientConfig)
	cancel()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	defer client.Close()

	// Create HTTP server
	r := mux.NewRouter()
	h := handlers.NewHandler(client)
	h.SetDefaults(routing.Preferences{
		Types:    cfg.Routing.DefaultTypes(),
		Priority: cfg.Routing.DefaultPriority(),
	}, cfg.Routing.MaxResults)
	h.RegisterRoutes(r)

	// Wrapping the router keeps CORS preflight ahead of method matching
	var handler http.Handler = r
	handler = handlers.LoggingMiddleware(logger)(handler)
	handler = handlers.RequestIDMiddleware(handler)
	handler = handlers.CORSMiddleware(cfg.Server.CORSOrigin)(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port, "stations", client.Stats().Stations)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listening: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
