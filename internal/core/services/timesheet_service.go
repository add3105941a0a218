package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/billing"
)

// timesheetService manages timesheet entries. Minutes are rounded up to the
// next quarter-hour on every write; locked entries reject any mutation.
type timesheetService struct {
	BaseService
	timesheetRepo portsrepo.TimesheetRepositoryFacade
	matterRepo    portsrepo.MatterRepositoryFacade
	now           func() time.Time
}

// NewTimesheetService creates the timesheet service.
func NewTimesheetService(timesheetRepo portsrepo.TimesheetRepositoryFacade, matterRepo portsrepo.MatterRepositoryFacade) portssvc.TimesheetSvcFacade {
	return &timesheetService{
		timesheetRepo: timesheetRepo,
		matterRepo:    matterRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.TimesheetSvcFacade = (*timesheetService)(nil)

// CreateEntry implements portssvc.TimesheetSvcFacade.
func (s *timesheetService) CreateEntry(ctx context.Context, req dto.CreateTimesheetEntryRequest, creatorID string) (*domain.TimesheetEntry, error) {
	if _, err := s.matterRepo.FindMatterByID(ctx, req.MatterID); err != nil {
		return nil, err
	}

	billable := true
	if req.IsBillable != nil {
		billable = *req.IsBillable
	}

	now := s.now()
	entry := domain.TimesheetEntry{
		EntryID:        uuid.NewString(),
		CollaboratorID: req.CollaboratorID,
		MatterID:       req.MatterID,
		EntryDate:      req.EntryDate,
		Minutes:        billing.RoundMinutes(req.Minutes),
		IsBillable:     billable,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.timesheetRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save timesheet entry", slog.String("matter_id", req.MatterID))
		return nil, fmt.Errorf("failed to save timesheet entry: %w", err)
	}
	return &entry, nil
}

// UpdateEntry implements portssvc.TimesheetSvcFacade.
func (s *timesheetService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateTimesheetEntryRequest, updaterID string) (*domain.TimesheetEntry, error) {
	entry, err := s.timesheetRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Locked {
		return nil, fmt.Errorf("%w: timesheet entry %s", apperrors.ErrLocked, entryID)
	}

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Minutes != nil {
		entry.Minutes = billing.RoundMinutes(*req.Minutes)
	}
	if req.IsBillable != nil {
		entry.IsBillable = *req.IsBillable
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	entry.LastUpdatedAt = s.now()
	entry.LastUpdatedBy = updaterID

	if err := s.timesheetRepo.UpdateEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to update timesheet entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry implements portssvc.TimesheetSvcFacade.
func (s *timesheetService) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.timesheetRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Locked {
		return fmt.Errorf("%w: timesheet entry %s", apperrors.ErrLocked, entryID)
	}
	return s.timesheetRepo.DeleteEntry(ctx, entryID)
}

// GetEntry implements portssvc.TimesheetSvcFacade.
func (s *timesheetService) GetEntry(ctx context.Context, entryID string) (*domain.TimesheetEntry, error) {
	return s.timesheetRepo.FindEntryByID(ctx, entryID)
}

// ListEntries implements portssvc.TimesheetSvcFacade.
func (s *timesheetService) ListEntries(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.TimesheetEntry, error) {
	return s.timesheetRepo.ListEntries(ctx, filter)
}
