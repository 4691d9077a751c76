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

	httpapi "github.com/i474232898/frost-dashboard/internal/api/http"
	"github.com/i474232898/frost-dashboard/internal/config"
	"github.com/i474232898/frost-dashboard/internal/frost"
	"github.com/i474232898/frost-dashboard/internal/frost/backend"
	"github.com/i474232898/frost-dashboard/internal/scheduler"
	"github.com/i474232898/frost-dashboard/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for backend calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := backend.New(backend.Options{
		BaseURL:    cfg.BackendURL,
		HTTPClient: httpClient,
		Contract:   cfg.Contract,
		MaxRetries: cfg.MaxRetries,
	})
	log.Printf("INFO: backend %s, forecast contract %s, stale guard %t", cfg.BackendURL, client.Contract(), cfg.StaleGuard)

	// Diagnostic channel with configured retention.
	diagnostics := store.NewDiagnosticsStore(cfg.DiagnosticsMaxHistory, cfg.DiagnosticsMaxAge)

	display := frost.NewDisplay(frost.IdleState(time.Now().UTC()), cfg.StaleGuard)
	controller := frost.NewController(client, display, diagnostics)

	// Page-load bootstrap: restore the last stored prediction.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()
		controller.LoadCurrent(ctx)
	}()

	sched := scheduler.New(cfg.RefreshInterval, cfg.HTTPTimeout, controller)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "frost-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout + 5*time.Second,
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "frost-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Dashboard{
		Controller:     controller,
		Diagnostics:    diagnostics,
		ManualFeatures: cfg.ManualFeatures,
		HistoryURL:     client.HistoryURL(),
		RequestTimeout: cfg.HTTPTimeout,
	})

	go func() {
		log.Printf("INFO: dashboard listening on :%s", cfg.Port)
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
