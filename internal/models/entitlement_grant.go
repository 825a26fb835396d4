package models

import (
	"time"

	"github.com/google/uuid"
)

// EntitlementGrant records the one-time default entitlement grant for a
// subject. The unique index on SubjectID is what makes the grant side effect
// idempotent: a second grant attempt hits the index and is treated as a no-op.
type EntitlementGrant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubjectID string    `gorm:"size:128;not null;uniqueIndex" json:"subject_id"`
	Plan      string    `gorm:"size:20;not null" json:"plan"`
	Credits   int       `gorm:"not null" json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}
