package image

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/gallery"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/studios"
)

// Studio implements the image generation studio.
type Studio struct{}

func New() *Studio {
	return &Studio{}
}

func (s *Studio) ID() string { return "image" }

// Generated assets live in the shared gallery tables.
func (s *Studio) Models() []interface{} { return nil }

func (s *Studio) RegisterRoutes(router fiber.Router, deps studios.Deps) {
	h := &handler{deps: deps}
	router.Post("/image/generate", h.generate)
}

type handler struct {
	deps studios.Deps
}

func (h *handler) generate(c *fiber.Ctx) error {
	subject, err := middleware.Subject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Prompt is required",
		})
	}

	remaining, err := studios.Charge(c.Context(), h.deps, subject)
	if err != nil {
		if errors.Is(err, studios.ErrNoCredits) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "No credits remaining",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	asset, err := h.deps.AssetStore.Save(c.Context(), gallery.Asset{
		SubjectID: subject,
		Kind:      gallery.KindImage,
		Prompt:    strings.TrimSpace(req.Prompt),
		URL:       "https://cdn.luminagen.app/image/" + uuid.NewString() + ".png",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save generated image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.GenerateResponse{
		AssetID:     asset.ID,
		Kind:        asset.Kind,
		URL:         asset.URL,
		CreditsLeft: remaining,
	})
}
