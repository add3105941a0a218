package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	"github.com/cabinetlib/practice_mgmt_app/internal/models"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	db *pgxpool.Pool
}

func newPgxExpenseRepository(db *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{db: db}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, collaborator_id, client_id, matter_id, expense_date, nature, amount_ttc_cents, is_billable, locked, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.CollaboratorID,
		&m.ClientID,
		&m.MatterID,
		&m.ExpenseDate,
		&m.Nature,
		&m.AmountTTCCents,
		&m.IsBillable,
		&m.Locked,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.db.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	d := mapping.ToDomainExpense(m)
	return &d, nil
}

func (r *PgxExpenseRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []string) (map[string]domain.Expense, error) {
	result := make(map[string]domain.Expense, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		result[m.ExpenseID] = mapping.ToDomainExpense(m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return result, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []interface{}{}
	if filter.MatterID != nil {
		args = append(args, *filter.MatterID)
		query += fmt.Sprintf(" AND matter_id = $%d", len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.CollaboratorID != nil {
		args = append(args, *filter.CollaboratorID)
		query += fmt.Sprintf(" AND collaborator_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND expense_date <= $%d", len(args))
	}
	if filter.OnlyBillable {
		query += " AND is_billable = true"
	}
	if filter.OnlyUnlocked {
		query += " AND locked = false"
	}
	query += ` ORDER BY expense_date, expense_id;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return mapping.ToDomainExpenseSlice(expenses), nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (expense_id, collaborator_id, client_id, matter_id, expense_date, nature, amount_ttc_cents, is_billable, locked, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.ExpenseID,
		m.CollaboratorID,
		m.ClientID,
		m.MatterID,
		m.ExpenseDate,
		m.Nature,
		m.AmountTTCCents,
		m.IsBillable,
		m.Locked,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		UPDATE expenses
		SET collaborator_id = $2, client_id = $3, matter_id = $4, expense_date = $5, nature = $6, amount_ttc_cents = $7, is_billable = $8, last_updated_at = $9, last_updated_by = $10
		WHERE expense_id = $1 AND locked = false;
	`
	tag, err := r.db.Exec(ctx, query,
		m.ExpenseID,
		m.CollaboratorID,
		m.ClientID,
		m.MatterID,
		m.ExpenseDate,
		m.Nature,
		m.AmountTTCCents,
		m.IsBillable,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", m.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLocked
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	query := `DELETE FROM expenses WHERE expense_id = $1 AND locked = false;`
	tag, err := r.db.Exec(ctx, query, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLocked
	}
	return nil
}
