package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/pickups-dashboard/internal/api/http"
	"github.com/i474232898/pickups-dashboard/internal/config"
	"github.com/i474232898/pickups-dashboard/internal/pickups"
	"github.com/i474232898/pickups-dashboard/internal/pickups/sources"
	"github.com/i474232898/pickups-dashboard/internal/scheduler"
	"github.com/i474232898/pickups-dashboard/internal/session"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for the dataset download.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Dataset cache shared by every session; entries live until the process exits.
	cache := pickups.NewCache()
	remote := sources.NewRemoteSource(httpClient, cfg.DataURL, cfg.FetchMaxRetries)
	service := pickups.NewService(cache, remote, cfg.TimestampColumn)

	sessions := session.NewMemoryStore()

	// Scheduler that expires idle sessions.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval, cfg.SessionIdleTTL)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Warm the cache so the first visitor does not pay for the download.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()
		if _, err := service.Load(ctx, cfg.RowLimit); err != nil {
			log.Printf("ERROR: initial dataset load failed; will retry on first request: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:               "pickups-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 10*time.Second,
		BodyLimit:             cfg.MaxUploadBytes,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "pickups-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, service, sessions, httpapi.Options{
		RowLimit:       cfg.RowLimit,
		DefaultHour:    cfg.DefaultHour,
		RawPreviewRows: cfg.RawPreviewRows,
		ExploreTopN:    cfg.ExploreTopN,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
