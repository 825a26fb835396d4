package entitlements

import "strings"

// Role is the normalized authorization level. External stores carry several
// historical spellings ("admin", "super_admin", "super-admin"); ParseRole
// collapses them at the boundary so nothing downstream re-checks strings.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
	RoleSuperAdmin
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "super_admin", "super-admin":
		return RoleSuperAdmin
	default:
		return RoleUser
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "super_admin"
	default:
		return "user"
	}
}
