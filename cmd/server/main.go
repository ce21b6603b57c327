package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wallet-bridge/wallet-bridge/internal/api"
	"github.com/wallet-bridge/wallet-bridge/internal/app"
	"github.com/wallet-bridge/wallet-bridge/internal/config"
	"github.com/wallet-bridge/wallet-bridge/internal/logger"
	"github.com/wallet-bridge/wallet-bridge/internal/middleware"
	"github.com/wallet-bridge/wallet-bridge/internal/privy"
	"github.com/wallet-bridge/wallet-bridge/internal/storage"
	"github.com/wallet-bridge/wallet-bridge/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.LogFormat, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Provider clients
	authClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	walletClient := privy.NewClient(cfg.PrivyBaseURL, cfg.PrivyAppID, cfg.PrivyAppSecret)

	// Optional audit trail
	var audit app.Auditor
	if cfg.PostgresDSN != "" {
		store, err := storage.New(cfg.PostgresDSN)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		audit = storage.NewAuditLogRepo(store.DB())
		slog.Info("audit trail enabled")
	}

	// Application service
	bridgeService := app.NewBridgeService(walletClient, cfg.ChainCAIP2, audit)

	// Middleware
	sessionAuth := middleware.NewSessionAuth(authClient, cfg.SupabaseCookieName)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitEnabled)

	// API server
	server := api.NewServer(cfg, bridgeService, sessionAuth, rateLimiter)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		slog.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("error during shutdown", "error", err)
			slog.Warn("forcing shutdown")
		}

		slog.Info("server stopped")
	}
}
