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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProfileRepository struct {
	db *pgxpool.Pool
}

func newPgxProfileRepository(db *pgxpool.Pool) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{db: db}
}

var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

const profileColumns = `profile_id, name, email, password_hash, hourly_rate_cents, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanProfile(row pgx.Row) (models.Profile, error) {
	var m models.Profile
	err := row.Scan(
		&m.ProfileID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.HourlyRateCents,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_id = $1;`
	m, err := scanProfile(r.db.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile %s: %w", profileID, err)
	}
	d := mapping.ToDomainProfile(m)
	return &d, nil
}

func (r *PgxProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email) = lower($1);`
	m, err := scanProfile(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}
	d := mapping.ToDomainProfile(m)
	return &d, nil
}

func (r *PgxProfileRepository) FindProfilesByIDs(ctx context.Context, profileIDs []string) (map[string]domain.Profile, error) {
	result := make(map[string]domain.Profile, len(profileIDs))
	if len(profileIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, profileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result[m.ProfileID] = mapping.ToDomainProfile(m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", rows.Err())
	}
	return result, nil
}

func (r *PgxProfileRepository) ListProfiles(ctx context.Context, includeInactive bool) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	if !includeInactive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		m, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", rows.Err())
	}
	return mapping.ToDomainProfileSlice(profiles), nil
}

func (r *PgxProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	m := mapping.ToModelProfile(profile)
	query := `
		INSERT INTO profiles (profile_id, name, email, password_hash, hourly_rate_cents, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.ProfileID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.HourlyRateCents,
		m.IsActive,
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
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *PgxProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	m := mapping.ToModelProfile(profile)
	query := `
		UPDATE profiles
		SET name = $2, email = $3, password_hash = $4, hourly_rate_cents = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE profile_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.ProfileID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.HourlyRateCents,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", m.ProfileID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
