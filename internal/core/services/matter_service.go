package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

// matterService manages matters. Switching the billing type never rewrites
// issued invoices: their lines and totals were computed at issuance and stay
// as stored.
type matterService struct {
	BaseService
	matterRepo   portsrepo.MatterRepositoryFacade
	clientRepo   portsrepo.ClientRepositoryFacade
	settingsRepo portsrepo.SettingsRepositoryFacade
	now          func() time.Time
}

// NewMatterService creates the matter service.
func NewMatterService(matterRepo portsrepo.MatterRepositoryFacade, clientRepo portsrepo.ClientRepositoryFacade, settingsRepo portsrepo.SettingsRepositoryFacade) portssvc.MatterSvcFacade {
	return &matterService{
		matterRepo:   matterRepo,
		clientRepo:   clientRepo,
		settingsRepo: settingsRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.MatterSvcFacade = (*matterService)(nil)

// CreateMatter implements portssvc.MatterSvcFacade. The VAT rate defaults to
// the cabinet default when the request leaves it unset.
func (s *matterService) CreateMatter(ctx context.Context, req dto.CreateMatterRequest, creatorID string) (*domain.Matter, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	vatRate := int64(-1)
	if req.VATRate != nil {
		vatRate = *req.VATRate
	} else {
		settings, err := s.settingsRepo.GetSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load cabinet settings: %w", err)
		}
		vatRate = settings.DefaultVATRate
	}

	now := s.now()
	matter := domain.Matter{
		MatterID:        uuid.NewString(),
		ClientID:        req.ClientID,
		Label:           req.Label,
		BillingType:     domain.BillingType(req.BillingType),
		HourlyRateCents: req.HourlyRateCents,
		FlatFeeCents:    req.FlatFeeCents,
		VATRate:         vatRate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.matterRepo.SaveMatter(ctx, matter); err != nil {
		return nil, fmt.Errorf("failed to save matter: %w", err)
	}
	return &matter, nil
}

// UpdateMatter implements portssvc.MatterSvcFacade.
func (s *matterService) UpdateMatter(ctx context.Context, matterID string, req dto.UpdateMatterRequest, updaterID string) (*domain.Matter, error) {
	matter, err := s.matterRepo.FindMatterByID(ctx, matterID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		matter.Label = *req.Label
	}
	if req.BillingType != nil {
		matter.BillingType = domain.BillingType(*req.BillingType)
	}
	if req.HourlyRateCents != nil {
		matter.HourlyRateCents = req.HourlyRateCents
	}
	if req.FlatFeeCents != nil {
		matter.FlatFeeCents = req.FlatFeeCents
	}
	if req.VATRate != nil {
		matter.VATRate = *req.VATRate
	}
	if req.IsArchived != nil {
		matter.IsArchived = *req.IsArchived
	}
	matter.LastUpdatedAt = s.now()
	matter.LastUpdatedBy = updaterID

	if err := s.matterRepo.UpdateMatter(ctx, *matter); err != nil {
		return nil, fmt.Errorf("failed to update matter: %w", err)
	}
	return matter, nil
}

// GetMatter implements portssvc.MatterSvcFacade.
func (s *matterService) GetMatter(ctx context.Context, matterID string) (*domain.Matter, error) {
	return s.matterRepo.FindMatterByID(ctx, matterID)
}

// ListMatters implements portssvc.MatterSvcFacade.
func (s *matterService) ListMatters(ctx context.Context, clientID *string, includeArchived bool) ([]domain.Matter, error) {
	return s.matterRepo.ListMatters(ctx, clientID, includeArchived)
}
