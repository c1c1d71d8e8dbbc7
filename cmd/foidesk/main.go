// Package main is the entry point for the foidesk admin server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foidesk/internal/cache"
	"foidesk/internal/config"
	"foidesk/internal/database"
	"foidesk/internal/handlers"
	"foidesk/internal/middleware"
	"foidesk/internal/router"
	"foidesk/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	locales, err := cfg.Locales()
	if err != nil {
		slog.Error("invalid locale configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"locales", locales.Available(),
		"default_locale", locales.Default(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if headings already exist).
	if cfg.IsDev() {
		if err := database.Seed(db, locales.Default()); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Valkey backs the listing cache and the rate limiter.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	listingCache := cache.NewListingCache(valkeyClient, cfg.ListingCacheTTL)
	limiter := middleware.NewRateLimiter(valkeyClient, cfg.RateLimitPerMinute, time.Minute)

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db, locales)
	headingStore := store.NewHeadingStore(db, locales)
	bodyStore := store.NewPublicBodyStore(db)
	userStore := store.NewUserStore(db)
	eventStore := store.NewEventStore(db)
	classificationStore := store.NewClassificationStore(db)

	admin := handlers.NewAdmin(categoryStore, headingStore, bodyStore, userStore, eventStore, classificationStore, listingCache, locales)
	r := router.New(admin, locales, limiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
