package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-sync/core/loader"
	"listing-sync/core/logger"
	"listing-sync/core/middleware/auth"
	"listing-sync/core/middleware/rayid"
	"listing-sync/feature/listings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "listing-sync/docs/swagger"
)

// @title Listing Sync API
// @version 1.0
// @description Keeps the property listings of a WordPress site in line with the Eagle CRM.
// @host localhost:8080
// @BasePath /

// intervalMinutes overrides sync.interval_minutes when zero or more.
var intervalMinutes int

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the listing sync server",
	Long:  `Starts the HTTP API and runs a sync pass on the configured schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg := bootstrap()
		defer logg.Sync()

		deps, err := buildDeps(cfg, logg, prometheus.DefaultRegisterer)
		if err != nil {
			logg.Fatal("Failed to wire sync", zap.Error(err))
		}
		feature := listings.NewFeature(deps)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		mgr := loader.NewManager()
		mgr.Register(feature)

		// RayID first so every log line of a request can be traced
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger is public
		app.Get("/swagger/*", swagger.HandlerDefault)

		if !cfg.Server.IsProtected() {
			logg.Warn("No server.api_key set, the API is open")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/health", "/metrics"}}))

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		interval := cfg.Sync.Interval()
		if intervalMinutes >= 0 {
			interval = time.Duration(intervalMinutes) * time.Minute
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		scheduler := listings.NewScheduler(feature.Service(), interval, logg)
		scheduler.Start(ctx)

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logg.Info("Shutting down server...")

		timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
		scheduler.Stop()
	},
}

func init() {
	startCmd.Flags().IntVar(&intervalMinutes, "interval", -1, "Minutes between scheduled passes (0 disables, default from config)")
	RootCmd.AddCommand(startCmd)
}
