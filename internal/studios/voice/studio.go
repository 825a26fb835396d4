package voice

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

// Studio implements the voice generation studio. Voice assets live in the
// Redis gallery source, not Postgres, so the merged gallery exercises both
// backends.
type Studio struct{}

func New() *Studio {
	return &Studio{}
}

func (s *Studio) ID() string { return "voice" }

func (s *Studio) Models() []interface{} { return nil }

func (s *Studio) RegisterRoutes(router fiber.Router, deps studios.Deps) {
	h := &handler{deps: deps}
	router.Post("/voice/generate", h.generate)
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

	if h.deps.VoiceStore == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Voice studio is unavailable",
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

	id := uuid.NewString()
	asset, err := h.deps.VoiceStore.Save(c.Context(), gallery.Asset{
		ID:        id,
		SubjectID: subject,
		Kind:      gallery.KindVoice,
		Prompt:    strings.TrimSpace(req.Prompt),
		URL:       "https://cdn.luminagen.app/voice/" + id + ".mp3",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save generated voice clip",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.GenerateResponse{
		AssetID:     asset.ID,
		Kind:        asset.Kind,
		URL:         asset.URL,
		CreditsLeft: remaining,
	})
}
