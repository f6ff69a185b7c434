package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/api"
	"github.com/stitts-dev/hoops-sim/internal/predictor"
	"github.com/stitts-dev/hoops-sim/internal/services"
	"github.com/stitts-dev/hoops-sim/pkg/config"
	"github.com/stitts-dev/hoops-sim/pkg/database"
	"github.com/stitts-dev/hoops-sim/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	entry := logger.WithService("hoops-sim")

	// The database is only needed when the catalog lives there
	var db *database.DB
	if cfg.CatalogSource == "database" {
		db, err = database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			entry.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	}

	catalogLoader, err := services.CatalogLoaderFor(cfg, db)
	if err != nil {
		entry.Fatalf("Failed to configure player catalog: %v", err)
	}
	resources, err := services.NewResources(cfg, catalogLoader, predictor.NetworkLoader, log)
	if err != nil {
		entry.Fatalf("Failed to initialize game resources: %v", err)
	}
	defer resources.Close()

	// Load eagerly so /ready flips early; a failure here is served as 503 per play
	if err := resources.Warm(); err != nil {
		entry.WithError(err).Warn("Shared resources failed to load, plays will report them unavailable")
	}

	store, err := newSessionStore(cfg, log)
	if err != nil {
		entry.Fatalf("Failed to initialize session store: %v", err)
	}
	defer store.Close()

	router := api.NewRouter(cfg, resources, store, log)

	for _, route := range router.Routes() {
		entry.Debugf("%s %s", route.Method, route.Path)
	}

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		entry.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			entry.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	entry.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		entry.Errorf("Server forced to shutdown: %v", err)
	}

	entry.Info("Server exited")
}

func newSessionStore(cfg *config.Config, log *logrus.Logger) (services.SessionStore, error) {
	if cfg.SessionStore == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return services.NewRedisSessionStore(services.NewCacheService(client, log), cfg.SessionTTL), nil
	}

	store := services.NewMemorySessionStore(cfg.SessionTTL, log)
	if err := store.StartSweeper(cfg.SessionSweepInterval); err != nil {
		return nil, err
	}
	return store, nil
}
