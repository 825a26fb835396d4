package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/analytics"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/nav"
	"github.com/luminagen/lumina-backend/internal/profile"
)

// NavHandler resolves raw client URLs into canonical pages. The route runs
// behind optional auth: anonymous callers resolve with the plain user role,
// token bearers get the role from their stored profile so the admin gate
// reflects the real authorization level, not a stale claim.
type NavHandler struct {
	profiles *profile.Store
	sink     *analytics.Sink
}

func NewNavHandler(profiles *profile.Store, sink *analytics.Sink) *NavHandler {
	return &NavHandler{profiles: profiles, sink: sink}
}

func (h *NavHandler) Resolve(c *fiber.Ctx) error {
	rawURL := c.Query("url")
	if rawURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "url query parameter is required",
		})
	}

	role := h.callerRole(c)
	res, err := nav.Resolve(rawURL, role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid url",
		})
	}

	subject, _ := middleware.Subject(c)
	h.sink.PageView(res.Page.Path(), subject, middleware.Email(c), subject != "")

	return c.JSON(dto.NavResolveResponse{
		Page:             res.Page.String(),
		Path:             res.Page.Path(),
		CanonicalURL:     res.CanonicalURL,
		OpenAuth:         res.OpenAuth,
		PrefillEmail:     res.PrefillEmail,
		VerifiedReturn:   res.VerifiedReturn,
		RefreshVerify:    res.RefreshVerify,
		ClearPendingFlag: res.ClearPendingFlag,
		StrippedIntents:  res.StrippedIntents,
	})
}

func (h *NavHandler) callerRole(c *fiber.Ctx) entitlements.Role {
	subject, err := middleware.Subject(c)
	if err != nil {
		return entitlements.RoleUser
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	user, err := h.profiles.BySubject(ctx, subject)
	if err != nil || user == nil {
		return entitlements.RoleUser
	}
	return entitlements.ParseRole(user.Role)
}
