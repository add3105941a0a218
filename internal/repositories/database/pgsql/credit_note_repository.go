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
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCreditNoteRepository struct {
	BaseRepository
}

func newPgxCreditNoteRepository(db *pgxpool.Pool) portsrepo.CreditNoteRepositoryFacade {
	return &PgxCreditNoteRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CreditNoteRepositoryFacade = (*PgxCreditNoteRepository)(nil)

const creditNoteColumns = `credit_note_id, invoice_id, number, issue_date, reason, ht_cents, vat_cents, ttc_cents, created_at, created_by, last_updated_at, last_updated_by`

func scanCreditNote(row pgx.Row) (models.CreditNote, error) {
	var m models.CreditNote
	err := row.Scan(
		&m.CreditNoteID,
		&m.InvoiceID,
		&m.Number,
		&m.IssueDate,
		&m.Reason,
		&m.HTCents,
		&m.VATCents,
		&m.TTCCents,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCreditNoteRepository) FindCreditNoteByID(ctx context.Context, creditNoteID string) (*domain.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE credit_note_id = $1;`
	m, err := scanCreditNote(r.Pool.QueryRow(ctx, query, creditNoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credit note %s: %w", creditNoteID, err)
	}
	d := mapping.ToDomainCreditNote(m)
	return &d, nil
}

func (r *PgxCreditNoteRepository) ListCreditNotesByInvoice(ctx context.Context, invoiceID string) ([]domain.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE invoice_id = $1 ORDER BY issue_date, number;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit notes for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()
	return collectCreditNotes(rows)
}

func (r *PgxCreditNoteRepository) ListCreditNotes(ctx context.Context, from, to *time.Time) ([]domain.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE 1=1`
	args := []interface{}{}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND issue_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND issue_date <= $%d", len(args))
	}
	query += ` ORDER BY issue_date, number;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit notes: %w", err)
	}
	defer rows.Close()
	return collectCreditNotes(rows)
}

func collectCreditNotes(rows pgx.Rows) ([]domain.CreditNote, error) {
	notes := []models.CreditNote{}
	for rows.Next() {
		m, err := scanCreditNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit note row: %w", err)
		}
		notes = append(notes, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating credit note rows: %w", rows.Err())
	}
	return mapping.ToDomainCreditNoteSlice(notes), nil
}

func (r *PgxCreditNoteRepository) SaveCreditNote(ctx context.Context, note domain.CreditNote, cancelInvoice bool) (*domain.CreditNote, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()

	number, err := allocateCreditNoteNumberTx(ctx, tx, note.IssueDate, note.CreatedBy, now)
	if err != nil {
		return nil, err
	}
	note.Number = number

	m := mapping.ToModelCreditNote(note)
	query := `
		INSERT INTO credit_notes (credit_note_id, invoice_id, number, issue_date, reason, ht_cents, vat_cents, ttc_cents, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.CreditNoteID,
		m.InvoiceID,
		m.Number,
		m.IssueDate,
		m.Reason,
		m.HTCents,
		m.VATCents,
		m.TTCCents,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert credit note %s: %w", m.CreditNoteID, err)
	}

	if cancelInvoice {
		// A total reversal cancels the invoice in the same transaction. The
		// consumed records stay locked, the work was still billed once.
		cancelQuery := `
			UPDATE invoices
			SET status = 'cancelled', last_updated_at = $2, last_updated_by = $3
			WHERE invoice_id = $1 AND status = 'issued';
		`
		tag, err := tx.Exec(ctx, cancelQuery, m.InvoiceID, now, m.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel invoice %s: %w", m.InvoiceID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, apperrors.ErrConflict
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &note, nil
}
