package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/gorm"
)

// AdminRequired layers three checks:
// 1. Static admin token header (operational tooling)
// 2. Config-based super-admin email allowlist
// 3. DB-based user role, normalized through entitlements.ParseRole
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	superAdmins := cfg.SuperAdmins()

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		subject, err := Subject(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		email := strings.ToLower(strings.TrimSpace(Email(c)))
		for _, admin := range superAdmins {
			if admin == email {
				return c.Next()
			}
		}

		var user models.User
		if err := db.Where("subject_id = ?", subject).First(&user).Error; err == nil {
			if entitlements.ParseRole(user.Role).IsAdmin() {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
