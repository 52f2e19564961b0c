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

	httpapi "github.com/i474232898/skycast/internal/api/http"
	"github.com/i474232898/skycast/internal/config"
	"github.com/i474232898/skycast/internal/scheduler"
	"github.com/i474232898/skycast/internal/store"
	"github.com/i474232898/skycast/internal/weather"
	"github.com/i474232898/skycast/internal/weather/providers"
)

func main() {
	// Load configuration (also reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// One geocoding strategy per deployment; there is no fallback between them.
	geocoder := providers.NewGeocoder(cfg, httpClient)
	fetcher := providers.NewOpenMeteoProvider(httpClient, cfg.ForecastBaseURL)
	log.Printf("INFO: using geocoder %s and fetcher %s", geocoder.Name(), fetcher.Name())

	// Core pipeline.
	service := weather.NewService(geocoder, fetcher)

	// Per-session display boards.
	sessions := store.NewMemoryStore(cfg.SessionMax, cfg.SessionMaxAge)

	// Periodic end-to-end provider probe. It gets its own providers so probe
	// failures never open the circuits user lookups go through.
	sched := scheduler.New(cfg.ProbeCities, cfg.ProbeInterval, providers.NewService(cfg, httpClient))
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "skycast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2*cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		probe := sched.Status()
		if !probe.Healthy {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status":   status,
			"service":  "skycast",
			"probe":    probe,
			"sessions": sessions.Len(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, sessions)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

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
