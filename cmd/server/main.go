/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the stock-engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (viper: defaults < config file < environment)
  2. Configure zerolog
  3. Initialize store (SQLite or in-memory)
  4. Create API handler with dependencies
  5. Start replenishment scheduler
  6. Start server with graceful shutdown

CONFIGURATION KEYS:
  port            HTTP server port (default: 8080)
  db              SQLite database path (default: stock.db)
                  Use ":memory:" for in-memory, "memory" for the
                  map-backed store
  log_level       zerolog level (default: info)
  cors_origins    Allowed CORS origins
  scheduler       Enable the replenishment scheduler (default: true)
  check_interval  Scheduler interval (default: 1h)

  Environment variables use the STOCK_ prefix: STOCK_PORT=3000.
  An optional stock-engine.yaml in the working directory is merged in.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store
  5. Exit

EXAMPLES:
  # Run with file database
  STOCK_DB="./data/stock.db" ./server

  # Run with the map-backed store
  STOCK_DB=memory ./server

  # Run on different port
  STOCK_PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/warp/stock-engine/api"
	"github.com/warp/stock-engine/inventory"
	memstore "github.com/warp/stock-engine/inventory/store"
	"github.com/warp/stock-engine/store/sqlite"
)

func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("db", "stock.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("scheduler", true)
	v.SetDefault("check_interval", time.Hour)

	v.SetEnvPrefix("STOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("stock-engine")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.GetString("log_level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	// Initialize store
	var (
		store     inventory.Store
		closeFunc func() error
	)
	switch dbPath := cfg.GetString("db"); dbPath {
	case "memory":
		store = memstore.NewMemory()
		closeFunc = func() error { return nil }
	default:
		s, err := sqlite.New(dbPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database")
		}
		store = s
		closeFunc = s.Close
	}
	defer closeFunc()

	// Initialize handler and router
	handler := api.NewHandler(store)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.GetStringSlice("cors_origins"),
		Logger:         logger,
	})

	// Replenishment scheduler
	scheduler := api.NewReplenishmentScheduler(handler, logger)
	scheduler.Enabled = cfg.GetBool("scheduler")
	scheduler.CheckInterval = cfg.GetDuration("check_interval")
	scheduler.Start()
	defer scheduler.Stop()

	port := cfg.GetInt("port")
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Int("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
