package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnalyticsEvent is a fire-and-forget product event (page_view, identify,
// reset). Written in batches by the analytics sink; never read on the
// request path.
type AnalyticsEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind       string         `gorm:"size:20;not null;index" json:"kind"`
	Path       string         `gorm:"size:255" json:"path"`
	SubjectID  string         `gorm:"size:128;index" json:"subject_id"`
	Email      string         `gorm:"size:255" json:"email"`
	Registered bool           `json:"registered"`
	Props      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"props"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	CreatedAt  time.Time      `json:"created_at"`
}
