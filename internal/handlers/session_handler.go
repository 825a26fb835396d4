package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/identity"
	"github.com/luminagen/lumina-backend/internal/middleware"
	"github.com/luminagen/lumina-backend/internal/profile"
	"github.com/luminagen/lumina-backend/internal/session"
)

// SessionHandler owns the auth endpoints and the session snapshot endpoint.
// Every successful sign-in runs the optimistic-then-authoritative resolution
// so the client gets a usable session in the same response.
type SessionHandler struct {
	provider *identity.TokenProvider
	tokens   *identity.TokenService
	profiles *profile.Store
	grants   *entitlements.Grants
	cfg      *config.Config
}

func NewSessionHandler(provider *identity.TokenProvider, tokens *identity.TokenService, profiles *profile.Store, grants *entitlements.Grants, cfg *config.Config) *SessionHandler {
	return &SessionHandler{
		provider: provider,
		tokens:   tokens,
		profiles: profiles,
		grants:   grants,
		cfg:      cfg,
	}
}

func (h *SessionHandler) sessionOptions() session.Options {
	return session.Options{
		SuperAdminEmails: h.cfg.SuperAdmins(),
		FreeTierCredits:  h.cfg.FreeTierCredits,
		UnlimitedCredits: h.cfg.UnlimitedCredits,
		InitTimeout:      h.cfg.SessionInitTimeout,
	}
}

func toSessionResponse(snap session.Snapshot) dto.SessionResponse {
	resp := dto.SessionResponse{
		Status:       snap.Status.String(),
		Ready:        snap.Ready,
		InitTimedOut: snap.InitTimedOut,
	}
	if snap.User != nil {
		resp.User = &dto.SessionUser{
			ID:         snap.User.ID,
			Name:       snap.User.Name,
			Email:      snap.User.Email,
			Role:       snap.User.RoleName,
			Plan:       snap.User.Plan,
			Credits:    snap.User.Credits,
			Registered: snap.User.Registered,
			Verified:   snap.User.Verified,
		}
	}
	return resp
}

func (h *SessionHandler) authResponse(c *fiber.Ctx, ident *identity.Identity) error {
	snap := session.Resolve(c.Context(), ident, h.profiles, h.grants, h.sessionOptions())

	user, err := h.profiles.BySubject(c.Context(), ident.Subject)
	if err != nil || user == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	pair, err := h.tokens.IssuePair(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to issue tokens",
		})
	}

	return c.JSON(dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Session:      toSessionResponse(snap),
	})
}

func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	ident, err := h.provider.Register(c.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	c.Status(fiber.StatusCreated)
	return h.authResponse(c, ident)
}

func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	ident, err := h.provider.SignInWithPassword(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return h.authResponse(c, ident)
}

func (h *SessionHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "ID token is required",
		})
	}

	ident, err := h.provider.SignInWithGoogle(c.Context(), req.IDToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Google sign-in failed",
		})
	}

	return h.authResponse(c, ident)
}

func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	pair, user, err := h.tokens.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	ident := &identity.Identity{
		Subject:       user.SubjectID,
		Email:         user.Email,
		EmailVerified: user.Verified,
		DisplayName:   user.DisplayName,
		Providers:     []string{user.AuthProvider},
	}
	snap := session.Resolve(c.Context(), ident, h.profiles, h.grants, h.sessionOptions())

	return c.JSON(dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Session:      toSessionResponse(snap),
	})
}

func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.RefreshToken != "" {
		if err := h.tokens.Revoke(c.Context(), req.RefreshToken); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to logout",
			})
		}
	}
	h.provider.SignOut()

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me resolves the session snapshot for the bearer of the access token.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	ident := identityFromToken(c)
	if ident == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	snap := session.Resolve(c.Context(), ident, h.profiles, h.grants, h.sessionOptions())
	return c.JSON(toSessionResponse(snap))
}

// RefreshVerification re-reads the stored verified flag; the client calls
// this on the verification-return redirect.
func (h *SessionHandler) RefreshVerification(c *fiber.Ctx) error {
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

	ident := &identity.Identity{
		Subject:       user.SubjectID,
		Email:         user.Email,
		EmailVerified: user.Verified,
		DisplayName:   user.DisplayName,
		Providers:     []string{user.AuthProvider},
	}
	snap := session.Resolve(c.Context(), ident, h.profiles, h.grants, h.sessionOptions())
	return c.JSON(toSessionResponse(snap))
}

// identityFromToken rebuilds the identity from access-token claims; nil when
// no valid token is in the request context.
func identityFromToken(c *fiber.Ctx) *identity.Identity {
	subject, err := middleware.Subject(c)
	if err != nil {
		return nil
	}
	return &identity.Identity{
		Subject:       subject,
		Email:         middleware.Email(c),
		EmailVerified: middleware.Verified(c),
		Providers:     []string{middleware.Provider(c)},
	}
}
