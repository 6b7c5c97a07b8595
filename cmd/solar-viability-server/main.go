package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/solar-viability/internal/logging"
	"github.com/iwvelando/solar-viability/internal/server"
	"github.com/iwvelando/solar-viability/internal/store"
	"github.com/iwvelando/solar-viability/internal/store/sqlite"
	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; values already in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
	}

	configLocation := flag.String("config", envOr("SOLAR_SERVER_CONFIG", constants.DefaultServerConfigFile), "path to server configuration file")
	address := flag.String("address", os.Getenv("SOLAR_ADDRESS"), "listen address override")
	database := flag.String("db", os.Getenv("SOLAR_DATABASE"), "SQLite database path override; \":memory:\" for a throwaway database")
	logLevel := flag.String("log-level", os.Getenv("SOLAR_LOG_LEVEL"), "log level override (debug, info, warn, error)")
	maxUpload := flag.String("max-upload", os.Getenv("SOLAR_MAX_UPLOAD"), "maximum request body size override (e.g. 512K, 2M)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if err := applyOverrides(cfg, *address, *database, *maxUpload); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid command line override\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := openStore(cfg.Database)
	if err != nil {
		logger.Fatal("failed to open analysis store",
			zap.String("op", "main"),
			zap.String("database", cfg.Database),
			zap.Error(err),
		)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close analysis store", zap.String("op", "main"), zap.Error(err))
		}
	}()

	handler := server.NewHandler(logger, st, server.Options{
		MaxUploadSize:    cfg.UploadSizeBytes(),
		Version:          version,
		AllowedOrigins:   cfg.AllowedOrigins,
		SystemCostPerKWp: cfg.SystemCostPerKWp,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
			zap.Bool("persistent", cfg.Database != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.String("op", "main"), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", zap.String("op", "main"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.String("op", "main"), zap.Error(err))
		return
	}

	logger.Info("server stopped", zap.String("op", "main"))
}

// applyOverrides layers non-empty flag values over the loaded configuration.
func applyOverrides(cfg *server.Config, address, database, maxUpload string) error {
	if address != "" {
		cfg.Address = address
	}
	if database != "" {
		cfg.Database = database
	}
	if strings.TrimSpace(maxUpload) != "" {
		size, err := server.ParseSize(maxUpload)
		if err != nil {
			return fmt.Errorf("max-upload: %w", err)
		}
		cfg.SetUploadSizeBytes(size)
	}
	return nil
}

// openStore selects SQLite when a database path is configured and the
// in-memory store otherwise.
func openStore(path string) (store.Store, error) {
	if strings.TrimSpace(path) == "" {
		return store.NewMemory(), nil
	}
	return sqlite.New(path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
