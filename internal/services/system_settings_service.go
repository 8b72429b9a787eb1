package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.uber.org/zap"
)

// FeatureFlags reports administratively switchable features. It is queried
// per request so a pause takes effect without a restart.
type FeatureFlags interface {
	RewardsStatus(ctx context.Context) (enabled bool, pausedMessage string, err error)
}

// PromoSource resolves the promo multiplier in effect right now.
type PromoSource interface {
	ActivePromo(ctx context.Context) (catalog.PromoMultiplier, bool, error)
}

// SettingsUpdate is a partial update of the system settings.
type SettingsUpdate struct {
	RewardsEnabled       *bool               `json:"rewardsEnabled"`
	RewardsPausedMessage *string             `json:"rewardsPausedMessage"`
	ActivePromo          *models.PromoWindow `json:"activePromo"`
	ClearPromo           bool                `json:"clearPromo"`
}

// SystemSettingsService manages feature switches and the active promo.
type SystemSettingsService struct {
	settingsRepo repositories.SystemSettingsRepository
	now          func() time.Time
}

var (
	_ FeatureFlags = (*SystemSettingsService)(nil)
	_ PromoSource  = (*SystemSettingsService)(nil)
)

// NewSystemSettingsService creates a new SystemSettingsService
func NewSystemSettingsService(settingsRepo repositories.SystemSettingsRepository) *SystemSettingsService {
	return &SystemSettingsService{
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// GetSettings retrieves the current system settings
func (s *SystemSettingsService) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

// UpdateSettings applies a partial update
func (s *SystemSettingsService) UpdateSettings(ctx context.Context, upd SettingsUpdate, updatedBy string) (*models.SystemSettings, error) {
	var issues []FieldIssue
	if p := upd.ActivePromo; p != nil {
		if _, err := catalog.ParsePromoMultiplier(p.Multiplier); err != nil {
			issues = append(issues, FieldIssue{Path: "activePromo.multiplier", Message: "must be one of 2, 3, 5, 10"})
		}
		if !p.EndsAt.After(p.StartsAt) {
			issues = append(issues, FieldIssue{Path: "activePromo.endsAt", Message: "must be after startsAt"})
		}
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if upd.RewardsEnabled != nil {
		settings.RewardsEnabled = *upd.RewardsEnabled
	}
	if upd.RewardsPausedMessage != nil {
		settings.RewardsPausedMessage = *upd.RewardsPausedMessage
	}
	if upd.ClearPromo {
		settings.ActivePromo = nil
	} else if upd.ActivePromo != nil {
		settings.ActivePromo = upd.ActivePromo
	}
	settings.UpdatedBy = updatedBy

	if err := s.settingsRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	zap.L().Info("system settings updated",
		zap.String("updatedBy", updatedBy),
		zap.Bool("rewardsEnabled", settings.RewardsEnabled))
	return settings, nil
}

// RewardsStatus reports whether rewards balances may be edited
func (s *SystemSettingsService) RewardsStatus(ctx context.Context) (bool, string, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return false, "", err
	}
	return settings.RewardsEnabled, settings.RewardsPausedMessage, nil
}

// ActivePromo returns the multiplier of the promo window covering now
func (s *SystemSettingsService) ActivePromo(ctx context.Context) (catalog.PromoMultiplier, bool, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return 0, false, err
	}
	p := settings.ActivePromo
	if p == nil {
		return 0, false, nil
	}
	m, ok := catalog.ActiveMultiplier(p.Multiplier, p.StartsAt, p.EndsAt, s.now())
	return m, ok, nil
}

// MiniDrawPackagesForDisplay returns the mini-draw catalog with the active
// promo applied. Nothing is persisted.
func (s *SystemSettingsService) MiniDrawPackagesForDisplay(ctx context.Context) ([]catalog.MiniDrawPackage, error) {
	pkgs := catalog.MiniDrawPackages()
	m, ok, err := s.ActivePromo(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return pkgs, nil
	}
	return catalog.ApplyPromoToMiniPackages(pkgs, m)
}
