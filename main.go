package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"aichat/api"
	"aichat/config"
	"aichat/hub"
	"aichat/logger"
	"aichat/policy"
	"aichat/provider"
	"aichat/relay"
	"aichat/store"
)

func main() {
	// Load configuration
	_ = godotenv.Load()
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	logger.L.Info("starting chat backend",
		"http_port", cfg.HTTPPort,
		"database", cfg.DatabaseURL,
		"snapshot", cfg.SnapshotName,
	)

	// Initialize snapshot persistence
	snapshotter, err := store.NewSQLiteSnapshotter(cfg.DatabaseURL, cfg.SnapshotName)
	if err != nil {
		logger.L.Error("failed to initialize snapshot persistence", "error", err)
		os.Exit(1)
	}
	defer snapshotter.Close()

	// Initialize store
	ctx := context.Background()
	st, err := store.New(ctx, snapshotter)
	if err != nil {
		logger.L.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}

	// Initialize change feed
	h := hub.NewHub()
	go h.Run()
	st.Subscribe(h.Publish)

	// Initialize provider router
	router := provider.NewRouter(cfg)

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.L.Error("failed to initialize policy engine", "error", err)
		os.Exit(1)
	}

	// Initialize relay and handlers
	rl := relay.New(router, policyEngine)
	handler := api.NewHandler(st, rl, nil, nil)
	wsServer := hub.NewServer(h)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	handler.RegisterRoutes(e)
	rl.RegisterRoutes(e)
	wsServer.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.L.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	logger.L.Info("chat backend started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L.Info("shutting down chat backend")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("failed to shutdown server gracefully", "error", err)
	}

	logger.L.Info("chat backend stopped")
}
