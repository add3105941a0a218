package repositories

import (
	"context"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// ExpenseFilter narrows an expense listing. Nil fields are ignored.
type ExpenseFilter struct {
	MatterID       *string
	ClientID       *string
	CollaboratorID *string
	From           *time.Time
	To             *time.Time
	OnlyBillable   bool
	OnlyUnlocked   bool
}

// ExpenseReader defines read operations for expenses
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	FindExpensesByIDs(ctx context.Context, expenseIDs []string) (map[string]domain.Expense, error)

	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error

	UpdateExpense(ctx context.Context, expense domain.Expense) error

	DeleteExpense(ctx context.Context, expenseID string) error
}

// ExpenseRepositoryFacade combines expense read and write contracts.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
