package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the authoritative profile record in the primary store. SubjectID is
// the identity provider's opaque subject, which the session controller keys
// everything on; the uuid primary key exists for admin-console CRUD.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubjectID    string         `gorm:"size:128;not null;uniqueIndex" json:"subject_id"`
	Email        string         `gorm:"size:255;not null;index" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	DisplayName  string         `gorm:"size:255" json:"display_name"`
	Role         string         `gorm:"size:20;default:'user'" json:"role"`
	Plan         string         `gorm:"size:20;default:'free'" json:"plan"`
	Credits      int            `gorm:"default:3" json:"credits"`
	Verified     bool           `gorm:"default:false" json:"verified"`
	AuthProvider string         `gorm:"size:50;default:'password'" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
