package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/database"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/gallery"
)

type HealthHandler struct {
	voiceStore *gallery.RedisStore
}

func NewHealthHandler(voiceStore *gallery.RedisStore) *HealthHandler {
	return &HealthHandler{voiceStore: voiceStore}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Redis:     "ok",
	}

	if err := database.Ping(); err != nil {
		resp.Status = "degraded"
		resp.DB = "unreachable"
	}
	if h.voiceStore == nil {
		resp.Redis = "disabled"
	} else if err := h.voiceStore.Ping(c.Context()); err != nil {
		resp.Status = "degraded"
		resp.Redis = "unreachable"
	}

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
