package chat

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/models"
	"github.com/luminagen/lumina-backend/internal/studios"
)

const (
	senderUser      = "user"
	senderAssistant = "assistant"
)

// Studio implements the chat studio: a credit-gated conversation whose turns
// are persisted per subject.
type Studio struct{}

func New() *Studio {
	return &Studio{}
}

func (s *Studio) ID() string { return "chat" }

func (s *Studio) Models() []interface{} {
	return []interface{}{&models.ChatMessage{}}
}

func (s *Studio) RegisterRoutes(router fiber.Router, deps studios.Deps) {
	h := &handler{deps: deps}
	router.Post("/chat/message", h.message)
	router.Get("/chat/history", h.history)
}

type handler struct {
	deps studios.Deps
}

func (h *handler) message(c *fiber.Ctx) error {
	subject, err := middleware.Subject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Message is required",
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

	content := strings.TrimSpace(req.Message)
	reply := composeReply(content)

	turns := []models.ChatMessage{
		{ID: uuid.New(), SubjectID: subject, Sender: senderUser, Content: content},
		{ID: uuid.New(), SubjectID: subject, Sender: senderAssistant, Content: reply},
	}
	if err := h.deps.DB.WithContext(c.Context()).Create(&turns).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save conversation",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ChatResponse{
		Reply:       reply,
		CreditsLeft: remaining,
	})
}

func (h *handler) history(c *fiber.Ctx) error {
	subject, err := middleware.Subject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var messages []models.ChatMessage
	if err := h.deps.DB.WithContext(c.Context()).
		Where("subject_id = ?", subject).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load history",
		})
	}

	return c.JSON(fiber.Map{"messages": messages, "count": len(messages)})
}

// composeReply stands in for the model backend; the conversation plumbing
// and credit gate stay identical once a real provider is wired.
func composeReply(message string) string {
	trimmed := message
	if len(trimmed) > 80 {
		trimmed = trimmed[:80] + "…"
	}
	return "Here's a direction for \"" + trimmed + "\": start with the core idea, sketch three variations, and refine the one with the strongest hook."
}
