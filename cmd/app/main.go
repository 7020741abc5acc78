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

	"github.com/osse101/Hearthmarket_Go/internal/auth"
	"github.com/osse101/Hearthmarket_Go/internal/bootstrap"
	"github.com/osse101/Hearthmarket_Go/internal/concurrency"
	"github.com/osse101/Hearthmarket_Go/internal/config"
	"github.com/osse101/Hearthmarket_Go/internal/crafting"
	"github.com/osse101/Hearthmarket_Go/internal/exchange"
	"github.com/osse101/Hearthmarket_Go/internal/server"
	"github.com/osse101/Hearthmarket_Go/internal/shop"
)

const (
	startupTimeout = 30 * time.Second
	maxRetryDelay  = time.Second
)

// @title						Hearthmarket API
// @version					1.0
// @description				Transactional economy for a tabletop RPG: potion brewing, currency exchange and player shops.
// @BasePath					/
// @securityDefinitions.apikey	ApiKeyAuth
// @in							header
// @name						X-API-Key
func main() {
	if err := config.ValidateEnv(); err != nil {
		slog.Error("Environment validation failed", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logger", "error", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	catalogs, err := bootstrap.LoadCatalogs(cfg)
	if err != nil {
		return err
	}

	repos, err := bootstrap.InitializeRepositories(startCtx, cfg)
	if err != nil {
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		repos.Close()
		return err
	}
	bootstrap.RegisterEventHandlers(bus)

	var verifier auth.Verifier
	if cfg.SupabaseEnabled() {
		verifier = auth.NewCachingVerifier(
			auth.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey),
			auth.CacheConfig{Size: cfg.AuthCacheSize, TTL: cfg.AuthCacheTTL},
		)
		slog.Info("Supabase identity verification enabled", "cache_ttl", cfg.AuthCacheTTL)
	}

	policy := concurrency.RetryPolicy{
		MaxAttempts: cfg.TxMaxAttempts,
		BaseDelay:   cfg.TxRetryBaseDelay,
		MaxDelay:    maxRetryDelay,
	}

	craftingService := crafting.NewService(repos.Crafting, catalogs.Recipes, publisher)
	exchangeService := exchange.NewService(repos.Exchange, catalogs.Rates, publisher)
	shopService := shop.NewService(repos.Shop, catalogs.Restock, publisher)

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		cfg.TrustedProxies,
		repos.DBPool(),
		verifier,
		policy,
		craftingService,
		exchangeService,
		shopService,
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), server.DefaultShutdownDeadline)
	defer shutdownCancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ResilientPublisher: publisher,
		Repositories:       repos,
	})
	return runErr
}
