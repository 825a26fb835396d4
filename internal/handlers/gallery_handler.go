package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/gallery"
	"github.com/luminagen/lumina-backend/internal/middleware"
)

type GalleryHandler struct {
	service *gallery.Service
}

func NewGalleryHandler(service *gallery.Service) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// List returns the caller's merged gallery, newest first. A degraded store
// still yields a 200 with whatever the other source returned.
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	subject, err := middleware.Subject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	assets := h.service.Load(c.Context(), subject)
	return c.JSON(fiber.Map{"assets": assets, "count": len(assets)})
}
