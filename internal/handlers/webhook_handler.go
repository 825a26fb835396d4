package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/billing"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/dto"
)

type WebhookHandler struct {
	billing *billing.Service
	cfg     *config.Config
}

func NewWebhookHandler(billingService *billing.Service, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{billing: billingService, cfg: cfg}
}

// HandlePayment processes payment-provider webhooks with shared-secret auth.
func (h *WebhookHandler) HandlePayment(c *fiber.Ctx) error {
	if h.cfg.PaymentWebhookSecret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.cfg.PaymentWebhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var webhook dto.PaymentWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if err := h.billing.HandleWebhookEvent(c.Context(), &webhook.Event); err != nil {
		slog.Error("webhook processing failed", "event_type", webhook.Event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_type", webhook.Event.Type, "subject", webhook.Event.SubjectID)
	return c.JSON(fiber.Map{"received": true})
}
