package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/gorm"
)

var ErrRecipientNotFound = errors.New("recipient not found")

// Service handles the admin-console inbox: direct messages to one user and
// broadcasts to every user.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Append delivers a message to one user's inbox.
func (s *Service) Append(ctx context.Context, userID uuid.UUID, title, body string) (*models.InboxMessage, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrRecipientNotFound
	}

	msg := models.InboxMessage{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append inbox message: %w", err)
	}
	return &msg, nil
}

// Broadcast materializes one inbox row per existing user. Large user bases
// would want a fan-out table instead; fine at this product's scale.
func (s *Service) Broadcast(ctx context.Context, title, body string) (int, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return 0, fmt.Errorf("failed to list recipients: %w", err)
	}

	messages := make([]models.InboxMessage, 0, len(users))
	for _, u := range users {
		messages = append(messages, models.InboxMessage{
			ID:        uuid.New(),
			UserID:    u.ID,
			Title:     title,
			Body:      body,
			Broadcast: true,
		})
	}
	if len(messages) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).CreateInBatches(messages, 100).Error; err != nil {
		return 0, fmt.Errorf("failed to broadcast: %w", err)
	}
	return len(messages), nil
}

// List returns a user's inbox, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.InboxMessage, error) {
	var messages []models.InboxMessage
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return messages, nil
}
