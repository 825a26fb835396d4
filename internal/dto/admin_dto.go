package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppendMessageRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}

type BroadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type BroadcastResponse struct {
	Delivered int `json:"delivered"`
}

type AdminUserResponse struct {
	ID        uuid.UUID `json:"id"`
	SubjectID string    `json:"subject_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Plan      string    `json:"plan"`
	Credits   int       `json:"credits"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type InboxMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Broadcast bool      `json:"broadcast"`
	CreatedAt time.Time `json:"created_at"`
}
