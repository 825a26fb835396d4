package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/profile"
	"github.com/luminagen/lumina-backend/internal/support"
)

// AdminHandler backs the admin console: user management and the support
// inbox. Every route sits behind AdminRequired except Inbox, which lists the
// calling user's own messages.
type AdminHandler struct {
	profiles *profile.Store
	support  *support.Service
}

func NewAdminHandler(profiles *profile.Store, supportService *support.Service) *AdminHandler {
	return &AdminHandler{profiles: profiles, support: supportService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.profiles.All(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}

	resp := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.AdminUserResponse{
			ID:        u.ID,
			SubjectID: u.SubjectID,
			Email:     u.Email,
			Name:      u.DisplayName,
			Role:      u.Role,
			Plan:      u.Plan,
			Credits:   u.Credits,
			Verified:  u.Verified,
			CreatedAt: u.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"users": resp, "count": len(resp)})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.profiles.Delete(c.Context(), userID); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (h *AdminHandler) AppendMessage(c *fiber.Ctx) error {
	var req dto.AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Title == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Title and body are required",
		})
	}

	msg, err := h.support.Append(c.Context(), req.UserID, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, support.ErrRecipientNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Recipient not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send message",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *AdminHandler) Broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Title == "" || req.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Title and body are required",
		})
	}

	delivered, err := h.support.Broadcast(c.Context(), req.Title, req.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to broadcast",
		})
	}

	return c.JSON(dto.BroadcastResponse{Delivered: delivered})
}

// Inbox lists the calling user's own support messages.
func (h *AdminHandler) Inbox(c *fiber.Ctx) error {
	subject, err := middleware.Subject(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.profiles.BySubject(c.Context(), subject)
	if err != nil || user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Profile not found",
		})
	}

	messages, err := h.support.List(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list inbox",
		})
	}

	resp := make([]dto.InboxMessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, dto.InboxMessageResponse{
			ID:        m.ID,
			Title:     m.Title,
			Body:      m.Body,
			Broadcast: m.Broadcast,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"messages": resp, "count": len(resp)})
}
