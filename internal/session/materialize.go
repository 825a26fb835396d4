package session

import (
	"strings"
	"time"

	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/identity"
	"github.com/luminagen/lumina-backend/internal/models"
)

const fallbackName = "Creator"

// Options carries the controller's static knobs.
type Options struct {
	SuperAdminEmails []string
	FreeTierCredits  int
	UnlimitedCredits int
	InitTimeout      time.Duration
}

func DefaultOptions() Options {
	return Options{
		FreeTierCredits:  3,
		UnlimitedCredits: 999999,
		InitTimeout:      5 * time.Second,
	}
}

func (o Options) isSuperAdmin(email string) bool {
	if email == "" {
		return false
	}
	email = strings.ToLower(email)
	for _, admin := range o.SuperAdminEmails {
		if strings.ToLower(admin) == email {
			return true
		}
	}
	return false
}

// MaterializeOptimistic projects an identity into a usable user record
// synchronously, before any network fetch. It is total: unknown or missing
// fields fall back to defaults, and it never fails.
func MaterializeOptimistic(id *identity.Identity, opts Options) *User {
	if id == nil {
		return nil
	}

	super := opts.isSuperAdmin(id.Email)

	u := &User{
		ID:         id.Subject,
		Name:       displayName(id.DisplayName, "", id.Email),
		Email:      id.Email,
		Role:       entitlements.RoleUser,
		Plan:       entitlements.PlanFree,
		Credits:    opts.FreeTierCredits,
		Registered: true,
		Verified:   id.EmailVerified || id.UsedProvider(identity.ProviderGoogle),
	}

	if super {
		u.Role = entitlements.RoleSuperAdmin
		u.Plan = entitlements.PlanPremium
		u.Credits = opts.UnlimitedCredits
		u.Verified = true
	}

	u.RoleName = u.Role.String()
	return u
}

// mergeAuthoritative merges the stored profile into the optimistic
// projection. Precedence: the super-admin allowlist always wins
// role/plan/credits/verified; the provider's display name beats the stored
// name; otherwise stored fields are authoritative.
func mergeAuthoritative(id *identity.Identity, profile *models.User, opts Options) *User {
	u := MaterializeOptimistic(id, opts)
	if profile == nil {
		return u
	}

	u.Name = displayName(id.DisplayName, profile.DisplayName, id.Email)

	if !opts.isSuperAdmin(id.Email) {
		u.Role = entitlements.ParseRole(profile.Role)
		u.RoleName = u.Role.String()
		u.Plan = profile.Plan
		if u.Plan == "" {
			u.Plan = entitlements.PlanFree
		}
		u.Credits = profile.Credits
		u.Verified = u.Verified || profile.Verified
	}

	return u
}

func displayName(provider, stored, email string) string {
	if provider != "" {
		return provider
	}
	if stored != "" {
		return stored
	}
	if email != "" {
		if at := strings.Index(email, "@"); at > 0 {
			return email[:at]
		}
		return email
	}
	return fallbackName
}

// grantEligible reports whether the identity qualifies for the one-time
// default entitlement grant.
func grantEligible(id *identity.Identity, opts Options) bool {
	return opts.isSuperAdmin(id.Email) ||
		id.EmailVerified ||
		id.UsedProvider(identity.ProviderGoogle)
}
