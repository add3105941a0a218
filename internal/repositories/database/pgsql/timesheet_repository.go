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

type PgxTimesheetRepository struct {
	db *pgxpool.Pool
}

func newPgxTimesheetRepository(db *pgxpool.Pool) portsrepo.TimesheetRepositoryFacade {
	return &PgxTimesheetRepository{db: db}
}

var _ portsrepo.TimesheetRepositoryFacade = (*PgxTimesheetRepository)(nil)

const entryColumns = `t.entry_id, t.collaborator_id, t.matter_id, t.entry_date, t.minutes, t.is_billable, t.locked, t.description, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

func scanEntry(row pgx.Row) (models.TimesheetEntry, error) {
	var m models.TimesheetEntry
	err := row.Scan(
		&m.EntryID,
		&m.CollaboratorID,
		&m.MatterID,
		&m.EntryDate,
		&m.Minutes,
		&m.IsBillable,
		&m.Locked,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTimesheetRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.TimesheetEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries t WHERE t.entry_id = $1;`
	m, err := scanEntry(r.db.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find timesheet entry %s: %w", entryID, err)
	}
	d := mapping.ToDomainTimesheetEntry(m)
	return &d, nil
}

func (r *PgxTimesheetRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.TimesheetEntry, error) {
	result := make(map[string]domain.TimesheetEntry, len(entryIDs))
	if len(entryIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries t WHERE t.entry_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet entries by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry row: %w", err)
		}
		result[m.EntryID] = mapping.ToDomainTimesheetEntry(m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating timesheet entry rows: %w", rows.Err())
	}
	return result, nil
}

func (r *PgxTimesheetRepository) ListEntries(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.TimesheetEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM timesheet_entries t`
	args := []interface{}{}
	where := " WHERE 1=1"

	// The client filter goes through the matter, entries do not store the
	// client directly.
	if filter.ClientID != nil {
		query += ` JOIN matters m ON m.matter_id = t.matter_id`
		args = append(args, *filter.ClientID)
		where += fmt.Sprintf(" AND m.client_id = $%d", len(args))
	}
	if filter.MatterID != nil {
		args = append(args, *filter.MatterID)
		where += fmt.Sprintf(" AND t.matter_id = $%d", len(args))
	}
	if filter.CollaboratorID != nil {
		args = append(args, *filter.CollaboratorID)
		where += fmt.Sprintf(" AND t.collaborator_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND t.entry_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND t.entry_date <= $%d", len(args))
	}
	if filter.OnlyBillable {
		where += " AND t.is_billable = true"
	}
	if filter.OnlyUnlocked {
		where += " AND t.locked = false"
	}
	query += where + ` ORDER BY t.entry_date, t.entry_id;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet entries: %w", err)
	}
	defer rows.Close()

	entries := []models.TimesheetEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry row: %w", err)
		}
		entries = append(entries, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating timesheet entry rows: %w", rows.Err())
	}
	return mapping.ToDomainTimesheetEntrySlice(entries), nil
}

func (r *PgxTimesheetRepository) SaveEntry(ctx context.Context, entry domain.TimesheetEntry) error {
	m := mapping.ToModelTimesheetEntry(entry)
	query := `
		INSERT INTO timesheet_entries (entry_id, collaborator_id, matter_id, entry_date, minutes, is_billable, locked, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID,
		m.CollaboratorID,
		m.MatterID,
		m.EntryDate,
		m.Minutes,
		m.IsBillable,
		m.Locked,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save timesheet entry: %w", err)
	}
	return nil
}

func (r *PgxTimesheetRepository) UpdateEntry(ctx context.Context, entry domain.TimesheetEntry) error {
	m := mapping.ToModelTimesheetEntry(entry)
	// locked = false in the predicate keeps a concurrent issuance from being
	// overwritten; the service has already rejected locked entries.
	query := `
		UPDATE timesheet_entries
		SET collaborator_id = $2, matter_id = $3, entry_date = $4, minutes = $5, is_billable = $6, description = $7, last_updated_at = $8, last_updated_by = $9
		WHERE entry_id = $1 AND locked = false;
	`
	tag, err := r.db.Exec(ctx, query,
		m.EntryID,
		m.CollaboratorID,
		m.MatterID,
		m.EntryDate,
		m.Minutes,
		m.IsBillable,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update timesheet entry %s: %w", m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLocked
	}
	return nil
}

func (r *PgxTimesheetRepository) DeleteEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM timesheet_entries WHERE entry_id = $1 AND locked = false;`
	tag, err := r.db.Exec(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLocked
	}
	return nil
}
