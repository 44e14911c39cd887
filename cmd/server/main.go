package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nyggen1981/arena-booking-sub002/internal/app"
	"github.com/Nyggen1981/arena-booking-sub002/internal/config"
	"github.com/Nyggen1981/arena-booking-sub002/internal/db"
	"github.com/Nyggen1981/arena-booking-sub002/internal/notify"
	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/logs"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logs.New(logs.Config{
		Level:          cfg.LogLevel,
		Format:         cfg.LogFormat,
		File:           cfg.LogFile,
		FileMaxSizeMB:  cfg.LogMaxSizeMB,
		FileMaxBackups: cfg.LogMaxBackups,
	})

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		logger.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	container, err := app.NewContainer(app.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		DBPool:           pool,
		Logger:           logger,
		JWTSecret:        cfg.JWTSecret,
		JWTTTL:           cfg.JWTAccessTokenTTL,
		BcryptCost:       cfg.BcryptCost,
		StoragePath:      cfg.StoragePath,
		ThumbnailQuality: cfg.ThumbnailQuality,
		LicenseBaseURL:   cfg.LicenseBaseURL,
		LicenseAPIKey:    cfg.LicenseAPIKey,
		LicenseTimeout:   cfg.LicenseTimeout,
		SMTP: notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		},
		NotifyQueue: cfg.NotifyQueue,
	})
	if err != nil {
		logger.Error("failed to init application", "error", err)
		os.Exit(1)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", "error", err)
	}

	// Drain pending notifications before exiting.
	container.Notifier.Close()

	logger.Info("server exited gracefully")
}
