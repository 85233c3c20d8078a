package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zilecito18/impostor-game/internal/app"
	"github.com/Zilecito18/impostor-game/internal/config"
	"github.com/Zilecito18/impostor-game/internal/identity"
	httpTransport "github.com/Zilecito18/impostor-game/internal/transport/http"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting impostor game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Wire the core: identity pool, room directory, broadcaster, engine
	identities := identity.NewClient(identity.Config{
		BaseURL:  cfg.Identity.BaseURL,
		APIKey:   cfg.Identity.APIKey,
		CacheTTL: cfg.Identity.CacheTTL,
	}, logger)

	directory := app.NewDirectory(cfg.Game.RoomCodeLength, logger)
	broadcaster := app.NewBroadcaster(logger)
	engine := app.NewEngine(directory, identities, broadcaster, logger)

	// Create HTTP server
	server := httpTransport.NewServer(cfg, directory, engine, broadcaster, identities, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	broadcaster.Close()

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
