package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luminagen/lumina-backend/internal/config"
	"github.com/luminagen/lumina-backend/internal/dto"
	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/profile"
)

// Service applies payment-provider webhook events to the profile plan.
type Service struct {
	profiles *profile.Store
	cfg      *config.Config
}

func NewService(profiles *profile.Store, cfg *config.Config) *Service {
	return &Service{profiles: profiles, cfg: cfg}
}

func (s *Service) HandleWebhookEvent(ctx context.Context, event *dto.PaymentEvent) error {
	switch event.Type {
	case "INITIAL_PURCHASE", "RENEWAL":
		return s.activatePremium(ctx, event)
	case "CANCELLATION", "EXPIRATION":
		return s.revertToFree(ctx, event)
	default:
		slog.Info("ignoring payment event", "type", event.Type, "subject", event.SubjectID)
		return nil
	}
}

func (s *Service) activatePremium(ctx context.Context, event *dto.PaymentEvent) error {
	err := s.profiles.SetPlan(ctx, event.SubjectID, entitlements.PlanPremium, s.cfg.UnlimitedCredits)
	if err != nil {
		return fmt.Errorf("failed to activate premium for %s: %w", event.SubjectID, err)
	}
	slog.Info("premium activated", "subject", event.SubjectID, "product", event.ProductID)
	return nil
}

func (s *Service) revertToFree(ctx context.Context, event *dto.PaymentEvent) error {
	err := s.profiles.SetPlan(ctx, event.SubjectID, entitlements.PlanFree, s.cfg.FreeTierCredits)
	if err != nil {
		return fmt.Errorf("failed to revert plan for %s: %w", event.SubjectID, err)
	}
	slog.Info("plan reverted to free", "subject", event.SubjectID)
	return nil
}
