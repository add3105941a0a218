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

type PgxSettingsRepository struct {
	db *pgxpool.Pool
}

func newPgxSettingsRepository(db *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{db: db}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

const settingsColumns = `settings_id, cabinet_name, address, siret, default_rate_cents, default_vat_rate, invoice_seq_year, invoice_seq_next, credit_seq_year, credit_seq_next, created_at, created_by, last_updated_at, last_updated_by`

func scanSettings(row pgx.Row) (models.CabinetSettings, error) {
	var m models.CabinetSettings
	err := row.Scan(
		&m.SettingsID,
		&m.CabinetName,
		&m.Address,
		&m.SIRET,
		&m.DefaultRateCents,
		&m.DefaultVATRate,
		&m.InvoiceSeqYear,
		&m.InvoiceSeqNext,
		&m.CreditSeqYear,
		&m.CreditSeqNext,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSettingsRepository) GetSettings(ctx context.Context) (*domain.CabinetSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM cabinet_settings LIMIT 1;`
	m, err := scanSettings(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load cabinet settings: %w", err)
	}
	d := mapping.ToDomainCabinetSettings(m)
	return &d, nil
}

func (r *PgxSettingsRepository) UpdateSettings(ctx context.Context, settings domain.CabinetSettings) error {
	m := mapping.ToModelCabinetSettings(settings)
	// The numbering counters are deliberately absent from this statement,
	// they only move inside the issuance and credit-note transactions.
	query := `
		UPDATE cabinet_settings
		SET cabinet_name = $2, address = $3, siret = $4, default_rate_cents = $5, default_vat_rate = $6, last_updated_at = $7, last_updated_by = $8
		WHERE settings_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.SettingsID,
		m.CabinetName,
		m.Address,
		m.SIRET,
		m.DefaultRateCents,
		m.DefaultVATRate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update cabinet settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// allocateInvoiceNumberTx reserves the next invoice number for the given
// issue date inside an open transaction. The SELECT ... FOR UPDATE on the
// settings row serialises concurrent issuances: a competing transaction
// blocks here until this one commits or rolls back, so numbers come out
// strictly sequential with no gaps and the counter never advances for an
// issuance that fails.
func allocateInvoiceNumberTx(ctx context.Context, tx pgx.Tx, issueDate time.Time, updatedBy string, now time.Time) (string, error) {
	var settingsID string
	var storedYear, storedNext int
	lockQuery := `SELECT settings_id, invoice_seq_year, invoice_seq_next FROM cabinet_settings LIMIT 1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery).Scan(&settingsID, &storedYear, &storedNext); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock settings row for invoice numbering: %w", err)
	}

	year := issueDate.Year()
	seq, newNext := domain.NextSequence(storedYear, storedNext, year)

	updateQuery := `
		UPDATE cabinet_settings
		SET invoice_seq_year = $2, invoice_seq_next = $3, last_updated_at = $4, last_updated_by = $5
		WHERE settings_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, settingsID, year, newNext, now, updatedBy); err != nil {
		return "", fmt.Errorf("failed to advance invoice sequence: %w", err)
	}
	return domain.FormatInvoiceNumber(year, seq), nil
}

// allocateCreditNoteNumberTx is the credit-note counterpart of
// allocateInvoiceNumberTx. The counters are independent.
func allocateCreditNoteNumberTx(ctx context.Context, tx pgx.Tx, issueDate time.Time, updatedBy string, now time.Time) (string, error) {
	var settingsID string
	var storedYear, storedNext int
	lockQuery := `SELECT settings_id, credit_seq_year, credit_seq_next FROM cabinet_settings LIMIT 1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery).Scan(&settingsID, &storedYear, &storedNext); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock settings row for credit-note numbering: %w", err)
	}

	year := issueDate.Year()
	seq, newNext := domain.NextSequence(storedYear, storedNext, year)

	updateQuery := `
		UPDATE cabinet_settings
		SET credit_seq_year = $2, credit_seq_next = $3, last_updated_at = $4, last_updated_by = $5
		WHERE settings_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, settingsID, year, newNext, now, updatedBy); err != nil {
		return "", fmt.Errorf("failed to advance credit-note sequence: %w", err)
	}
	return domain.FormatCreditNoteNumber(year, seq), nil
}
