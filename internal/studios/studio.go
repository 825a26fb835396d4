package studios

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/gallery"
	"github.com/luminagen/lumina-backend/internal/profile"
	"gorm.io/gorm"
)

// ErrNoCredits is returned by the credit gate when a free-tier balance is
// exhausted.
var ErrNoCredits = errors.New("no credits remaining")

// Deps is the shared dependency set handed to every studio at registration.
type Deps struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Profiles   *profile.Store
	AssetStore *gallery.PGStore
	VoiceStore *gallery.RedisStore
}

// Studio is the plugin interface each generation studio implements.
type Studio interface {
	// ID returns the studio identifier used as the route prefix.
	ID() string

	// Models returns GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts studio routes on the given group. The group is
	// already prefixed with /api/studio and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, deps Deps)
}

// Charge applies the credit gate for one generation. Premium plans and
// admin-grade roles bypass the debit entirely. A store failure during the
// debit is logged and the generation proceeds; only a definitive empty
// balance blocks.
func Charge(ctx context.Context, deps Deps, subject string) (int, error) {
	user, err := deps.Profiles.BySubject(ctx, subject)
	if err != nil || user == nil {
		slog.Warn("credit check skipped, profile unavailable", "subject", subject, "error", err)
		return 0, nil
	}

	ent := entitlements.Derive(user.Plan, user.Credits, deps.Cfg.UnlimitedCredits)
	if ent.BypassCredits || entitlements.ParseRole(user.Role).IsAdmin() {
		return deps.Cfg.UnlimitedCredits, nil
	}

	remaining, err := deps.Profiles.Debit(ctx, subject)
	if errors.Is(err, profile.ErrNoCredits) {
		return 0, ErrNoCredits
	}
	if err != nil {
		slog.Warn("credit debit failed, allowing generation", "subject", subject, "error", err)
		return user.Credits, nil
	}
	return remaining, nil
}
