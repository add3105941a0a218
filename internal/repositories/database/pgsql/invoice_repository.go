package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	"github.com/cabinetlib/practice_mgmt_app/internal/models"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(db *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `i.invoice_id, i.matter_id, i.status, i.period_from, i.period_to, i.issue_date, i.number, i.total_ht_cents, i.total_vat_cents, i.total_ttc_cents, i.paid, i.payment_date, i.created_at, i.created_by, i.last_updated_at, i.last_updated_by`

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.MatterID,
		&m.Status,
		&m.PeriodFrom,
		&m.PeriodTo,
		&m.IssueDate,
		&m.Number,
		&m.TotalHT,
		&m.TotalVAT,
		&m.TotalTTC,
		&m.Paid,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const lineColumns = `line_id, invoice_id, position, label, minutes, rate_cents, vat_rate, ht_cents, vat_cents, ttc_cents, entry_ids, expense_id`

func scanLine(row pgx.Row) (models.InvoiceLine, error) {
	var m models.InvoiceLine
	err := row.Scan(
		&m.LineID,
		&m.InvoiceID,
		&m.Position,
		&m.Label,
		&m.Minutes,
		&m.RateCents,
		&m.VATRate,
		&m.HTCents,
		&m.VATCents,
		&m.TTCCents,
		&m.EntryIDs,
		&m.ExpenseID,
	)
	return m, err
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	lines, err := r.findLinesByInvoiceIDs(ctx, []string{invoiceID})
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainInvoice(m, lines[invoiceID])
	return &d, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i`
	args := []interface{}{}
	where := " WHERE 1=1"

	if filter.ClientID != nil {
		query += ` JOIN matters m ON m.matter_id = i.matter_id`
		args = append(args, *filter.ClientID)
		where += fmt.Sprintf(" AND m.client_id = $%d", len(args))
	}
	if filter.MatterID != nil {
		args = append(args, *filter.MatterID)
		where += fmt.Sprintf(" AND i.matter_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if filter.UnpaidOnly {
		where += " AND i.paid = false"
	}
	if filter.IssuedFrom != nil {
		args = append(args, *filter.IssuedFrom)
		where += fmt.Sprintf(" AND i.issue_date >= $%d", len(args))
	}
	if filter.IssuedTo != nil {
		args = append(args, *filter.IssuedTo)
		where += fmt.Sprintf(" AND i.issue_date <= $%d", len(args))
	}
	query += where + ` ORDER BY i.created_at DESC, i.invoice_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	ids := []string{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, m)
		ids = append(ids, m.InvoiceID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}

	linesByInvoice, err := r.findLinesByInvoiceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Invoice, len(invoices))
	for i, m := range invoices {
		result[i] = mapping.ToDomainInvoice(m, linesByInvoice[m.InvoiceID])
	}
	return result, nil
}

func (r *PgxInvoiceRepository) findLinesByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string][]models.InvoiceLine, error) {
	result := make(map[string][]models.InvoiceLine, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + lineColumns + ` FROM invoice_lines WHERE invoice_id = ANY($1) ORDER BY invoice_id, position;`
	rows, err := r.Pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice line row: %w", err)
		}
		result[m.InvoiceID] = append(result[m.InvoiceID], m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice line rows: %w", rows.Err())
	}
	return result, nil
}

func insertLinesTx(ctx context.Context, tx pgx.Tx, lines []models.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoice_lines (line_id, invoice_id, position, label, minutes, rate_cents, vat_rate, ht_cents, vat_cents, ttc_cents, entry_ids, expense_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, l := range lines {
		batch.Queue(query,
			l.LineID,
			l.InvoiceID,
			l.Position,
			l.Label,
			l.Minutes,
			l.RateCents,
			l.VATRate,
			l.HTCents,
			l.VATCents,
			l.TTCCents,
			l.EntryIDs,
			l.ExpenseID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert invoice line: %w", err)
		}
	}
	return nil
}

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (invoice_id, matter_id, status, period_from, period_to, issue_date, number, total_ht_cents, total_vat_cents, total_ttc_cents, paid, payment_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		m.InvoiceID,
		m.MatterID,
		m.Status,
		m.PeriodFrom,
		m.PeriodTo,
		m.IssueDate,
		m.Number,
		m.TotalHT,
		m.TotalVAT,
		m.TotalTTC,
		m.Paid,
		m.PaymentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, err)
	}

	if err := insertLinesTx(ctx, tx, mapping.ToModelInvoiceLineSlice(invoice.Lines)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) ReplaceDraftLines(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	// The status predicate makes the swap a no-op on anything but a draft.
	query := `
		UPDATE invoices
		SET period_from = $2, period_to = $3, total_ht_cents = $4, total_vat_cents = $5, total_ttc_cents = $6, last_updated_at = $7, last_updated_by = $8
		WHERE invoice_id = $1 AND status = 'draft';
	`
	tag, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.PeriodFrom,
		m.PeriodTo,
		m.TotalHT,
		m.TotalVAT,
		m.TotalTTC,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft invoice %s: %w", m.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, m.InvoiceID); err != nil {
		return fmt.Errorf("failed to clear draft lines for invoice %s: %w", m.InvoiceID, err)
	}
	if err := insertLinesTx(ctx, tx, mapping.ToModelInvoiceLineSlice(invoice.Lines)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) DeleteDraftInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete lines of invoice %s: %w", invoiceID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1 AND status = 'draft';`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete draft invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return r.Commit(ctx, tx)
}

// lockEntriesTx flips the locked flag on the given timesheet entries. The
// locked = $3 predicate plus the affected-row check aborts the whole
// transaction when any entry was already in the target state, typically
// because a concurrent issuance got there first.
func lockEntriesTx(ctx context.Context, tx pgx.Tx, entryIDs []string, lock bool, updatedBy string, now time.Time) error {
	if len(entryIDs) == 0 {
		return nil
	}
	query := `
		UPDATE timesheet_entries
		SET locked = $2, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = ANY($1) AND locked = $3;
	`
	tag, err := tx.Exec(ctx, query, entryIDs, lock, !lock, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update entry locks: %w", err)
	}
	if tag.RowsAffected() != int64(len(entryIDs)) {
		return apperrors.ErrLocked
	}
	return nil
}

func lockExpensesTx(ctx context.Context, tx pgx.Tx, expenseIDs []string, lock bool, updatedBy string, now time.Time) error {
	if len(expenseIDs) == 0 {
		return nil
	}
	query := `
		UPDATE expenses
		SET locked = $2, last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = ANY($1) AND locked = $3;
	`
	tag, err := tx.Exec(ctx, query, expenseIDs, lock, !lock, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update expense locks: %w", err)
	}
	if tag.RowsAffected() != int64(len(expenseIDs)) {
		return apperrors.ErrLocked
	}
	return nil
}

// applyFallbackTx covers invoices whose lines carry no back-references: every
// billable record of the matter dated inside the billing period moves to the
// target lock state. No affected-row check here, zero matches is legitimate.
func applyFallbackTx(ctx context.Context, tx pgx.Tx, fb portsrepo.IssuanceFallback, lock bool, updatedBy string, now time.Time) error {
	entryQuery := `
		UPDATE timesheet_entries
		SET locked = $2, last_updated_at = $6, last_updated_by = $7
		WHERE matter_id = $1 AND locked = $3 AND is_billable = true AND entry_date >= $4 AND entry_date <= $5;
	`
	if _, err := tx.Exec(ctx, entryQuery, fb.MatterID, lock, !lock, fb.PeriodFrom, fb.PeriodTo, now, updatedBy); err != nil {
		return fmt.Errorf("failed to apply period lock to entries: %w", err)
	}
	expenseQuery := `
		UPDATE expenses
		SET locked = $2, last_updated_at = $6, last_updated_by = $7
		WHERE matter_id = $1 AND locked = $3 AND is_billable = true AND expense_date >= $4 AND expense_date <= $5;
	`
	if _, err := tx.Exec(ctx, expenseQuery, fb.MatterID, lock, !lock, fb.PeriodFrom, fb.PeriodTo, now, updatedBy); err != nil {
		return fmt.Errorf("failed to apply period lock to expenses: %w", err)
	}
	return nil
}

func (r *PgxInvoiceRepository) IssueInvoice(ctx context.Context, invoiceID string, issueDate time.Time, entryIDs, expenseIDs []string, fallback *portsrepo.IssuanceFallback, updatedBy string) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()

	number, err := allocateInvoiceNumberTx(ctx, tx, issueDate, updatedBy, now)
	if err != nil {
		return "", err
	}

	query := `
		UPDATE invoices
		SET status = 'issued', number = $2, issue_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1 AND status = 'draft';
	`
	tag, err := tx.Exec(ctx, query, invoiceID, number, issueDate, now, updatedBy)
	if err != nil {
		return "", fmt.Errorf("failed to stamp invoice %s issued: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrConflict
	}

	if err := lockEntriesTx(ctx, tx, entryIDs, true, updatedBy, now); err != nil {
		return "", err
	}
	if err := lockExpensesTx(ctx, tx, expenseIDs, true, updatedBy, now); err != nil {
		return "", err
	}
	if fallback != nil {
		if err := applyFallbackTx(ctx, tx, *fallback, true, updatedBy, now); err != nil {
			return "", err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}

func (r *PgxInvoiceRepository) VoidInvoice(ctx context.Context, invoiceID string, entryIDs, expenseIDs []string, fallback *portsrepo.IssuanceFallback, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()

	// Number and issue date survive cancellation, the sequence never reuses
	// a voided number.
	query := `
		UPDATE invoices
		SET status = 'cancelled', last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $1 AND status = 'issued';
	`
	tag, err := tx.Exec(ctx, query, invoiceID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to cancel invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := lockEntriesTx(ctx, tx, entryIDs, false, updatedBy, now); err != nil {
		return err
	}
	if err := lockExpensesTx(ctx, tx, expenseIDs, false, updatedBy, now); err != nil {
		return err
	}
	if fallback != nil {
		if err := applyFallbackTx(ctx, tx, *fallback, false, updatedBy, now); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, paid bool, paymentDate *time.Time, updatedBy string) error {
	query := `
		UPDATE invoices
		SET paid = $2, payment_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1 AND status = 'issued';
	`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, paid, paymentDate, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark invoice %s paid=%t: %w", invoiceID, paid, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
