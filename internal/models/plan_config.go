package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanConfig stores pricing-page plan definitions as key/value JSON so the
// catalog can change without a deploy. Seeded with defaults at boot.
type PlanConfig struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string         `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
	CreatedAt time.Time      `json:"created_at"`
}
