package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedAsset is an image or video produced by a studio, stored in the
// primary (Postgres) gallery source. Voice assets live in the Redis source.
type GeneratedAsset struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubjectID string    `gorm:"size:128;not null;index" json:"subject_id"`
	Kind      string    `gorm:"size:20;not null;index" json:"kind"`
	Prompt    string    `gorm:"type:text" json:"prompt"`
	URL       string    `gorm:"size:512" json:"url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ChatMessage is one turn of a chat-studio conversation.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubjectID string    `gorm:"size:128;not null;index" json:"subject_id"`
	Sender    string    `gorm:"size:20;not null" json:"sender"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
