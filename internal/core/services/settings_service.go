package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

// settingsService exposes the cabinet settings singleton. The numbering
// counters are read-only here; they only advance inside issuance and
// credit-note transactions.
type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepositoryFacade
	now          func() time.Time
}

// NewSettingsService creates the settings service.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo: settingsRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

func (s *settingsService) GetSettings(ctx context.Context) (*domain.CabinetSettings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, updaterID string) (*domain.CabinetSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.CabinetName != nil {
		settings.CabinetName = *req.CabinetName
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.SIRET != nil {
		settings.SIRET = *req.SIRET
	}
	if req.DefaultRateCents != nil {
		settings.DefaultRateCents = *req.DefaultRateCents
	}
	if req.DefaultVATRate != nil {
		settings.DefaultVATRate = *req.DefaultVATRate
	}
	settings.LastUpdatedAt = s.now()
	settings.LastUpdatedBy = updaterID

	if err := s.settingsRepo.UpdateSettings(ctx, *settings); err != nil {
		return nil, fmt.Errorf("failed to update cabinet settings: %w", err)
	}
	return settings, nil
}
