package models

import (
	"time"

	"github.com/google/uuid"
)

// InboxMessage is a support/admin message delivered to a user's inbox.
// Broadcast messages are materialized as one row per recipient.
type InboxMessage struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string     `gorm:"size:255" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	Broadcast bool       `gorm:"default:false" json:"broadcast"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}
