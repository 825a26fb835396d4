package entitlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Grants records baseline entitlement grants. EnsureDefault is safe to call
// more than once per subject: the unique index absorbs duplicates.
type Grants struct {
	db              *gorm.DB
	freeTierCredits int
}

func NewGrants(db *gorm.DB, freeTierCredits int) *Grants {
	return &Grants{db: db, freeTierCredits: freeTierCredits}
}

// EnsureDefault grants the free-tier baseline to subject if it has no grant
// yet. Returns true when a new grant was written.
func (g *Grants) EnsureDefault(ctx context.Context, subject string) (bool, error) {
	if subject == "" {
		return false, errors.New("subject is required")
	}

	grant := models.EntitlementGrant{
		ID:        uuid.New(),
		SubjectID: subject,
		Plan:      PlanFree,
		Credits:   g.freeTierCredits,
	}

	result := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoNothing: true,
		}).
		Create(&grant)
	if result.Error != nil {
		return false, fmt.Errorf("failed to write entitlement grant: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Granted reports whether subject already has a baseline grant.
func (g *Grants) Granted(ctx context.Context, subject string) (bool, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.EntitlementGrant{}).
		Where("subject_id = ?", subject).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
