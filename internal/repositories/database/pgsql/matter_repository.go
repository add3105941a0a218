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

type PgxMatterRepository struct {
	db *pgxpool.Pool
}

func newPgxMatterRepository(db *pgxpool.Pool) portsrepo.MatterRepositoryFacade {
	return &PgxMatterRepository{db: db}
}

var _ portsrepo.MatterRepositoryFacade = (*PgxMatterRepository)(nil)

const matterColumns = `matter_id, client_id, label, billing_type, hourly_rate_cents, flat_fee_cents, vat_rate, is_archived, created_at, created_by, last_updated_at, last_updated_by`

func scanMatter(row pgx.Row) (models.Matter, error) {
	var m models.Matter
	err := row.Scan(
		&m.MatterID,
		&m.ClientID,
		&m.Label,
		&m.BillingType,
		&m.HourlyRateCents,
		&m.FlatFeeCents,
		&m.VATRate,
		&m.IsArchived,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxMatterRepository) FindMatterByID(ctx context.Context, matterID string) (*domain.Matter, error) {
	query := `SELECT ` + matterColumns + ` FROM matters WHERE matter_id = $1;`
	m, err := scanMatter(r.db.QueryRow(ctx, query, matterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find matter %s: %w", matterID, err)
	}
	d := mapping.ToDomainMatter(m)
	return &d, nil
}

func (r *PgxMatterRepository) ListMatters(ctx context.Context, clientID *string, includeArchived bool) ([]domain.Matter, error) {
	query := `SELECT ` + matterColumns + ` FROM matters WHERE 1=1`
	args := []interface{}{}
	if clientID != nil {
		args = append(args, *clientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if !includeArchived {
		query += ` AND is_archived = false`
	}
	query += ` ORDER BY label;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matters: %w", err)
	}
	defer rows.Close()

	matters := []models.Matter{}
	for rows.Next() {
		m, err := scanMatter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matter row: %w", err)
		}
		matters = append(matters, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating matter rows: %w", rows.Err())
	}
	return mapping.ToDomainMatterSlice(matters), nil
}

func (r *PgxMatterRepository) SaveMatter(ctx context.Context, matter domain.Matter) error {
	m := mapping.ToModelMatter(matter)
	query := `
		INSERT INTO matters (matter_id, client_id, label, billing_type, hourly_rate_cents, flat_fee_cents, vat_rate, is_archived, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.MatterID,
		m.ClientID,
		m.Label,
		m.BillingType,
		m.HourlyRateCents,
		m.FlatFeeCents,
		m.VATRate,
		m.IsArchived,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save matter: %w", err)
	}
	return nil
}

func (r *PgxMatterRepository) UpdateMatter(ctx context.Context, matter domain.Matter) error {
	m := mapping.ToModelMatter(matter)
	query := `
		UPDATE matters
		SET label = $2, billing_type = $3, hourly_rate_cents = $4, flat_fee_cents = $5, vat_rate = $6, is_archived = $7, last_updated_at = $8, last_updated_by = $9
		WHERE matter_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.MatterID,
		m.Label,
		m.BillingType,
		m.HourlyRateCents,
		m.FlatFeeCents,
		m.VATRate,
		m.IsArchived,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update matter %s: %w", m.MatterID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
