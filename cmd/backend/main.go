// Package main provides the entry point for the ShortLink service.
//
//	@title			ShortLink API
//	@version		1.0.0
//	@description	Short-link service: maps short codes to target URLs, redirects and counts clicks.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"ShortLink-Backend/internal/config"
	"ShortLink-Backend/internal/database"
	httpHandler "ShortLink-Backend/internal/handler/http"
	"ShortLink-Backend/internal/repository"
	"ShortLink-Backend/internal/repository/memory"
	"ShortLink-Backend/internal/repository/postgres"
	"ShortLink-Backend/internal/repository/redisstore"
	"ShortLink-Backend/internal/repository/sqlite"
	"ShortLink-Backend/internal/service"
	"ShortLink-Backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "ShortLink-Backend/docs" // Import swagger docs
)

// linkStore is what every backend provides to the services and probes.
type linkStore interface {
	repository.LinkStore
	repository.Pinger
}

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting shortlink service",
		zap.String("env", cfg.Env),
		zap.String("storage", cfg.Storage.Driver))

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open link store", zap.Error(err))
	}
	defer closeStore()

	registry := service.NewLinkRegistry(store, &cfg.URLShortener, log)
	resolver := service.NewRedirectResolver(store, log)

	httpAPIServer := httpHandler.NewServer(registry, resolver, store, log, cfg.URLShortener.BaseURL)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      httpAPIServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down shortlink service", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}

// openStore builds the configured backend and returns a function releasing it.
func openStore(cfg *config.Config, log *zap.Logger) (linkStore, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewConnection(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}

		// Run database migrations if enabled
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db, log); err != nil {
				_ = database.Close(db, log)
				return nil, nil, err
			}
		} else {
			log.Info("skipping database migrations (auto_migrate: false)")
		}

		return postgres.New(db, log), func() {
			if err := database.Close(db, log); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			}
		}, nil

	case "sqlite":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := sqlite.New(ctx, cfg.SQLite.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error("failed to close sqlite store", zap.Error(err))
			}
		}, nil

	case "redis":
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}

		log.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
		return redisstore.New(client, cfg.Redis.KeyPrefix, log), func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", zap.Error(err))
			}
		}, nil

	case "memory":
		log.Warn("using in-memory link store; links are lost on restart")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
