package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/handlers"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/studios"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	sessionHandler *handlers.SessionHandler,
	navHandler *handlers.NavHandler,
	galleryHandler *handlers.GalleryHandler,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	adminHandler *handlers.AdminHandler,
	plansHandler *handlers.PlansHandler,
	studioDeps studios.Deps,
	studioList []studios.Studio,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Plan catalog (public)
	api.Get("/plans", plansHandler.GetCatalog)

	// Navigation resolution (optional auth: role-gates the admin page)
	api.Get("/nav/resolve", middleware.JWTOptional(cfg), navHandler.Resolve)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", sessionHandler.Register)
	auth.Post("/login", sessionHandler.Login)
	auth.Post("/google", sessionHandler.GoogleSignIn)
	auth.Post("/refresh", sessionHandler.Refresh)

	// Protected session endpoints
	api.Post("/auth/logout", middleware.JWTProtected(cfg), sessionHandler.Logout)
	api.Get("/session", middleware.JWTProtected(cfg), sessionHandler.Me)
	api.Post("/session/verify-refresh", middleware.JWTProtected(cfg), sessionHandler.RefreshVerification)

	// Gallery and inbox (protected)
	api.Get("/gallery", middleware.JWTProtected(cfg), galleryHandler.List)
	api.Get("/inbox", middleware.JWTProtected(cfg), adminHandler.Inbox)

	// Admin console (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Post("/messages", adminHandler.AppendMessage)
	admin.Post("/messages/broadcast", adminHandler.Broadcast)
	admin.Put("/plans/:key", plansHandler.SetKey)
	admin.Delete("/plans/:key", plansHandler.DeleteKey)

	// Webhooks — shared-secret auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/payment", webhookHandler.HandlePayment)

	// Studio routes behind JWT
	studio := api.Group("/studio", middleware.JWTProtected(cfg))
	for _, s := range studioList {
		s.RegisterRoutes(studio, studioDeps)
	}
}
