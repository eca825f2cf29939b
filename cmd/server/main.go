package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scale-monitor-backend/internal/alerts"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/audit"
	"scale-monitor-backend/internal/auth"
	"scale-monitor-backend/internal/branches"
	"scale-monitor-backend/internal/config"
	"scale-monitor-backend/internal/dashboard"
	"scale-monitor-backend/internal/database"
	"scale-monitor-backend/internal/httplog"
	"scale-monitor-backend/internal/ingest"
	"scale-monitor-backend/internal/logger"
	"scale-monitor-backend/internal/models"
	"scale-monitor-backend/internal/mqtt"
	"scale-monitor-backend/internal/readings"
	"scale-monitor-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "scale-monitor-backend")
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	st := store.New(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	authSvc := auth.NewService(st, tokens, log)
	ingestSvc := ingest.NewService(st, log)
	branchSvc := branches.NewService(st)
	alertSvc := alerts.NewService(st, audit.NewRecorder(st, log), log)
	readingSvc := readings.NewService(st)
	dashboardSvc := dashboard.NewService(st)
	auditSvc := audit.NewService(st)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.FiberErrorHandler(log),
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(recover.New())
	app.Use(httplog.New(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + ingest.HeaderDeviceID + ", " + ingest.HeaderDeviceKey,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public
	app.Post("/auth/login", auth.LoginHandler(authSvc))
	app.Post("/ingest/weight", ingest.IngestWeightHandler(ingestSvc))

	// Protected
	protected := app.Group("")
	protected.Use(auth.JWTMiddleware(tokens))
	protected.Use(auth.RequireRole(models.RoleGlobalManager, models.RoleBranchManager))

	protected.Get("/auth/me", auth.MeHandler(authSvc))
	protected.Get("/branches", branches.ListBranchesHandler(branchSvc))

	protected.Get("/readings", readings.ListReadingsHandler(readingSvc))
	protected.Get("/readings/comparison", readings.ComparisonHandler(readingSvc))
	protected.Get("/readings/export", readings.ExportHandler(readingSvc))

	protected.Get("/alerts/config", alerts.GetConfigHandler(alertSvc))
	protected.Put("/alerts/config/branch/:branchId", alerts.UpsertBranchConfigHandler(alertSvc))
	protected.Put("/alerts/config/scale/:scaleId", alerts.UpsertScaleConfigHandler(alertSvc))
	protected.Delete("/alerts/config/scale/:scaleId", alerts.DeleteScaleConfigHandler(alertSvc))
	protected.Get("/alerts/status", alerts.StatusHandler(alertSvc))

	protected.Get("/dashboard/trend", dashboard.TrendHandler(dashboardSvc))
	protected.Get("/dashboard/stats", dashboard.StatsHandler(dashboardSvc))

	protected.Get("/audit-logs", audit.ListAuditLogsHandler(auditSvc))

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled() {
		sub, err := ingest.NewSubscriber(ingestSvc, cfg.MQTT.Topic, log)
		if err != nil {
			return err
		}
		if mqttClient, err = mqtt.Connect(cfg.MQTT, log); err != nil {
			return err
		}
		if err := mqttClient.Subscribe(cfg.MQTT.Topic, cfg.MQTT.QoS, sub.HandleMessage); err != nil {
			mqttClient.Close()
			return err
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("port", cfg.HTTPPort))
		serverErr <- app.Listen(":" + cfg.HTTPPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if mqttClient != nil {
			mqttClient.Close()
		}
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if mqttClient != nil {
		mqttClient.Close()
	}
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}
