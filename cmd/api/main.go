package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewbean/internal/cart"
	"brewbean/internal/config"
	"brewbean/internal/database"
	"brewbean/internal/handler"
	"brewbean/internal/loyalty"
	"brewbean/internal/payment"
	"brewbean/internal/repository"
	"brewbean/internal/router"
	"brewbean/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting brewbean API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize redis client for the cart store
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	rewardRepo := repository.NewRewardRepository(pool, logger)

	// Initialize cart store
	cartStore := cart.NewRedisStore(redisClient, logger)

	// Initialize loyalty engine with the standard tier table
	engine, err := loyalty.NewEngine(loyalty.DefaultTiers())
	if err != nil {
		return fmt.Errorf("failed to initialize loyalty engine: %w", err)
	}

	// Select payment provider: Stripe when a key is configured, the
	// in-process simulator otherwise
	var provider payment.Provider
	if cfg.Stripe.SecretKey != "" {
		provider = payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.Currency, logger)
		logger.Info().Msg("using Stripe payment provider")
	} else {
		provider = payment.NewSimulator(logger)
		logger.Warn().Msg("no Stripe key configured, using simulated payments")
	}

	// Initialize services
	menuService := service.NewMenuService(menuRepo, logger)
	cartService := service.NewCartService(cartStore, menuRepo, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, menuRepo, cartService, engine, provider, logger)
	loyaltyService := service.NewLoyaltyService(engine, userRepo, rewardRepo, logger)

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(menuService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService, logger)

	// Initialize router
	mux := router.New(menuHandler, cartHandler, orderHandler, loyaltyHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
