package gallery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/gorm"
)

// PGStore holds image and video assets in the primary Postgres store.
type PGStore struct {
	db *gorm.DB
}

func NewPGStore(db *gorm.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) ListBySubject(ctx context.Context, subject string) ([]Asset, error) {
	var records []models.GeneratedAsset
	if err := s.db.WithContext(ctx).
		Where("subject_id = ?", subject).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch generated assets: %w", err)
	}

	assets := make([]Asset, 0, len(records))
	for _, r := range records {
		assets = append(assets, Asset{
			ID:        r.ID.String(),
			SubjectID: r.SubjectID,
			Kind:      r.Kind,
			Prompt:    r.Prompt,
			URL:       r.URL,
			CreatedAt: r.CreatedAt,
		})
	}
	return assets, nil
}

func (s *PGStore) Save(ctx context.Context, asset Asset) (Asset, error) {
	record := models.GeneratedAsset{
		ID:        uuid.New(),
		SubjectID: asset.SubjectID,
		Kind:      asset.Kind,
		Prompt:    asset.Prompt,
		URL:       asset.URL,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return Asset{}, fmt.Errorf("failed to save generated asset: %w", err)
	}

	asset.ID = record.ID.String()
	asset.CreatedAt = record.CreatedAt
	return asset, nil
}

// DeleteBySubject removes all of a user's assets; used by admin profile
// deletion.
func (s *PGStore) DeleteBySubject(ctx context.Context, subject string) error {
	return s.db.WithContext(ctx).
		Where("subject_id = ?", subject).
		Delete(&models.GeneratedAsset{}).Error
}
