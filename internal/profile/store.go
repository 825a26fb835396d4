package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrNoCredits = errors.New("no credits remaining")
)

// Store is the primary profile store. It satisfies session.ProfileStore:
// a missing profile is (nil, nil), not an error, so the controller can tell
// "new user" apart from "store down".
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) BySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("subject_id = ?", subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}

func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}

// SetPlan updates the plan and credit balance together; used by the billing
// webhook on purchase and expiry events.
func (s *Store) SetPlan(ctx context.Context, subject, plan string, credits int) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("subject_id = ?", subject).
		Updates(map[string]interface{}{"plan": plan, "credits": credits})
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVerified flips the stored verified flag (email-link verification).
func (s *Store) SetVerified(ctx context.Context, subject string, verified bool) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("subject_id = ?", subject).
		Update("verified", verified).Error
}

// Debit decrements one credit with a plain read-modify-write. Two tabs can
// race here and both observe the same starting balance; there is no
// compare-and-swap. Known gap, kept as-is.
func (s *Store) Debit(ctx context.Context, subject string) (int, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("subject_id = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to fetch profile for debit: %w", err)
	}

	if user.Credits <= 0 {
		return 0, ErrNoCredits
	}

	remaining := user.Credits - 1
	if err := s.db.WithContext(ctx).Model(&user).Update("credits", remaining).Error; err != nil {
		return 0, fmt.Errorf("failed to update credits: %w", err)
	}
	return remaining, nil
}

// All lists every profile; admin console only.
func (s *Store) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return users, nil
}

// Delete removes a profile and everything hanging off it; admin console
// only.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", user.ID).Delete(&models.InboxMessage{})
		tx.Where("subject_id = ?", user.SubjectID).Delete(&models.GeneratedAsset{})
		tx.Where("subject_id = ?", user.SubjectID).Delete(&models.ChatMessage{})
		tx.Where("subject_id = ?", user.SubjectID).Delete(&models.EntitlementGrant{})
		return tx.Delete(&user).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	slog.Info("profile deleted", "subject", user.SubjectID, "action", "admin_delete_user")
	return nil
}
