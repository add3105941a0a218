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
)

// expenseService manages expenses; same lock lifecycle as timesheet entries.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	matterRepo  portsrepo.MatterRepositoryFacade
	now         func() time.Time
}

// NewExpenseService creates the expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, matterRepo portsrepo.MatterRepositoryFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		matterRepo:  matterRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense implements portssvc.ExpenseSvcFacade. The client id is
// derived from the matter so the two can never disagree.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorID string) (*domain.Expense, error) {
	matter, err := s.matterRepo.FindMatterByID(ctx, req.MatterID)
	if err != nil {
		return nil, err
	}

	billable := true
	if req.IsBillable != nil {
		billable = *req.IsBillable
	}

	now := s.now()
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		CollaboratorID: req.CollaboratorID,
		ClientID:       matter.ClientID,
		MatterID:       req.MatterID,
		ExpenseDate:    req.ExpenseDate,
		Nature:         req.Nature,
		AmountTTCCents: req.AmountTTCCents,
		IsBillable:     billable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("matter_id", req.MatterID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return &expense, nil
}

// UpdateExpense implements portssvc.ExpenseSvcFacade.
func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, updaterID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Locked {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrLocked, expenseID)
	}

	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if req.Nature != nil {
		expense.Nature = *req.Nature
	}
	if req.AmountTTCCents != nil {
		if *req.AmountTTCCents <= 0 {
			return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
		}
		expense.AmountTTCCents = *req.AmountTTCCents
	}
	if req.IsBillable != nil {
		expense.IsBillable = *req.IsBillable
	}
	expense.LastUpdatedAt = s.now()
	expense.LastUpdatedBy = updaterID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense implements portssvc.ExpenseSvcFacade.
func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string) error {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.Locked {
		return fmt.Errorf("%w: expense %s", apperrors.ErrLocked, expenseID)
	}
	return s.expenseRepo.DeleteExpense(ctx, expenseID)
}

// GetExpense implements portssvc.ExpenseSvcFacade.
func (s *expenseService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// ListExpenses implements portssvc.ExpenseSvcFacade.
func (s *expenseService) ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	return s.expenseRepo.ListExpenses(ctx, filter)
}
