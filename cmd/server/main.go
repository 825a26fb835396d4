package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/luminagen/lumina-backend/internal/analytics"
	"github.com/luminagen/lumina-backend/internal/billing"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/database"
	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/gallery"
	"github.com/luminagen/lumina-backend/internal/handlers"
	"github.com/luminagen/lumina-backend/internal/identity"
	"github.com/luminagen/lumina-backend/internal/logging"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/profile"
	"github.com/luminagen/lumina-backend/internal/routes"
	"github.com/luminagen/lumina-backend/internal/session"
	"github.com/luminagen/lumina-backend/internal/studios"
	"github.com/luminagen/lumina-backend/internal/studios/chat"
	"github.com/luminagen/lumina-backend/internal/studios/image"
	"github.com/luminagen/lumina-backend/internal/studios/video"
	"github.com/luminagen/lumina-backend/internal/studios/voice"
	"github.com/luminagen/lumina-backend/internal/support"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log and analytics cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Voice gallery store (Redis); the merged gallery degrades without it
	voiceStore, err := gallery.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("redis unavailable, voice gallery disabled", "error", err)
		voiceStore = nil
	}

	// Core services
	profiles := profile.NewStore(database.DB)
	grants := entitlements.NewGrants(database.DB, cfg.FreeTierCredits)
	provider := identity.NewTokenProvider(database.DB, cfg)
	tokens := identity.NewTokenService(database.DB, cfg)
	assetStore := gallery.NewPGStore(database.DB)

	gallerySources := []gallery.Source{assetStore}
	if voiceStore != nil {
		gallerySources = append(gallerySources, voiceStore)
	}
	galleryService := gallery.NewService(gallerySources...)

	sink := analytics.NewSink(database.DB)
	billingService := billing.NewService(profiles, cfg)
	supportService := support.NewService(database.DB)

	// Session controller: reconciles provider events into the shared
	// snapshot. The HTTP session endpoints resolve per request; the
	// controller keeps the provider subscription and analytics identify /
	// reset wiring alive.
	sessionOpts := session.Options{
		SuperAdminEmails: cfg.SuperAdmins(),
		FreeTierCredits:  cfg.FreeTierCredits,
		UnlimitedCredits: cfg.UnlimitedCredits,
		InitTimeout:      cfg.SessionInitTimeout,
	}
	controller := session.NewController(provider, profiles, grants, galleryService, sink, sessionOpts)
	controller.Start()
	provider.Announce()

	// Studios
	studioDeps := studios.Deps{
		DB:         database.DB,
		Cfg:        cfg,
		Profiles:   profiles,
		AssetStore: assetStore,
		VoiceStore: voiceStore,
	}
	studioList := []studios.Studio{
		image.New(),
		video.New(),
		voice.New(),
		chat.New(),
	}
	for _, s := range studioList {
		if modelList := s.Models(); len(modelList) > 0 {
			if err := database.MigrateModels(modelList); err != nil {
				slog.Error("studio migration failed", "studio", s.ID(), "error", err)
				os.Exit(1)
			}
		}
	}

	// Handlers
	sessionHandler := handlers.NewSessionHandler(provider, tokens, profiles, grants, cfg)
	navHandler := handlers.NewNavHandler(profiles, sink)
	galleryHandler := handlers.NewGalleryHandler(galleryService)
	healthHandler := handlers.NewHealthHandler(voiceStore)
	webhookHandler := handlers.NewWebhookHandler(billingService, cfg)
	adminHandler := handlers.NewAdminHandler(profiles, supportService)
	plansHandler := handlers.NewPlansHandler(database.DB)

	slog.Info("seeding plan catalog defaults")
	if err := plansHandler.SeedDefaults(); err != nil {
		slog.Error("plan catalog seed failed", "error", err)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, database.DB,
		sessionHandler, navHandler, galleryHandler, healthHandler,
		webhookHandler, adminHandler, plansHandler,
		studioDeps, studioList)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	controller.Stop()
	sink.Stop()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if voiceStore != nil {
		if err := voiceStore.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
