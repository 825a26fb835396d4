package session

import "github.com/luminagen/lumina-backend/internal/entitlements"

// Status tags the confidence level of the published user record. Optimistic
// and authoritative are the same logical user at different confidence
// levels, never two records.
type Status int

const (
	StatusNone Status = iota
	StatusOptimistic
	StatusAuthoritative
)

func (s Status) String() string {
	switch s {
	case StatusOptimistic:
		return "optimistic"
	case StatusAuthoritative:
		return "authoritative"
	default:
		return "none"
	}
}

// User is the merged session user consumed by the rest of the application.
type User struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       entitlements.Role  `json:"-"`
	RoleName   string             `json:"role"`
	Plan       string             `json:"plan"`
	Credits    int                `json:"credits"`
	Registered bool               `json:"registered"`
	Verified   bool               `json:"verified"`
}

// Snapshot is the single shared value published to subscribers. Mutations
// are whole-record replacements; consumers never see partial updates.
//
// Ready flips to true exactly once, when the first identity event or the
// init deadline arrives. InitTimedOut is sticky: a late identity event does
// not clear it.
type Snapshot struct {
	Status       Status `json:"status"`
	User         *User  `json:"user"`
	Ready        bool   `json:"ready"`
	InitTimedOut bool   `json:"init_timed_out"`
}
