package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils"
)

// ErrInvalidCredentials is returned on any authentication failure; it never
// says whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type profileService struct {
	BaseService
	profileRepo portsrepo.ProfileRepositoryFacade
	now         func() time.Time
}

// NewProfileService creates the collaborator-profile service.
func NewProfileService(profileRepo portsrepo.ProfileRepositoryFacade) portssvc.ProfileSvcFacade {
	return &profileService{
		profileRepo: profileRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ProfileSvcFacade = (*profileService)(nil)

func (s *profileService) CreateProfile(ctx context.Context, req dto.CreateProfileRequest, creatorID string) (*domain.Profile, error) {
	if existing, err := s.profileRepo.FindProfileByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, req.Email)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	profile := domain.Profile{
		ProfileID:       uuid.NewString(),
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    hash,
		HourlyRateCents: req.HourlyRateCents,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.profileRepo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, profileID string, req dto.UpdateProfileRequest, updaterID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindProfileByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.ClearHourlyRate {
		profile.HourlyRateCents = nil
	} else if req.HourlyRateCents != nil {
		profile.HourlyRateCents = req.HourlyRateCents
	}
	if req.IsActive != nil {
		profile.IsActive = *req.IsActive
	}
	profile.LastUpdatedAt = s.now()
	profile.LastUpdatedBy = updaterID

	if err := s.profileRepo.UpdateProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	return s.profileRepo.FindProfileByID(ctx, profileID)
}

func (s *profileService) ListProfiles(ctx context.Context, includeInactive bool) ([]domain.Profile, error) {
	return s.profileRepo.ListProfiles(ctx, includeInactive)
}

// Authenticate implements portssvc.ProfileSvcFacade.
func (s *profileService) Authenticate(ctx context.Context, email, password string) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, profile.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}
