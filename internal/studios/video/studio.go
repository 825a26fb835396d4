package video

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

// Studio implements the video generation studio. Videos share the Postgres
// gallery source with images.
type Studio struct{}

func New() *Studio {
	return &Studio{}
}

func (s *Studio) ID() string { return "video" }

func (s *Studio) Models() []interface{} { return nil }

func (s *Studio) RegisterRoutes(router fiber.Router, deps studios.Deps) {
	h := &handler{deps: deps}
	router.Post("/video/generate", h.generate)
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
		Kind:      gallery.KindVideo,
		Prompt:    strings.TrimSpace(req.Prompt),
		URL:       "https://cdn.luminagen.app/video/" + uuid.NewString() + ".mp4",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save generated video",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.GenerateResponse{
		AssetID:     asset.ID,
		Kind:        asset.Kind,
		URL:         asset.URL,
		CreditsLeft: remaining,
	})
}
