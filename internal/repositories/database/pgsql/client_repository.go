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

const uniqueViolationCode = "23505"

type PgxClientRepository struct {
	db *pgxpool.Pool
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{db: db}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientColumns = `client_id, name, email, address, created_at, created_by, last_updated_at, last_updated_by`

func scanClient(row pgx.Row) (models.Client, error) {
	var m models.Client
	err := row.Scan(
		&m.ClientID,
		&m.Name,
		&m.Email,
		&m.Address,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	m, err := scanClient(r.db.QueryRow(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client %s: %w", clientID, err)
	}
	d := mapping.ToDomainClient(m)
	return &d, nil
}

func (r *PgxClientRepository) FindClientsByIDs(ctx context.Context, clientIDs []string) (map[string]domain.Client, error) {
	result := make(map[string]domain.Client, len(clientIDs))
	if len(clientIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		result[m.ClientID] = mapping.ToDomainClient(m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", rows.Err())
	}
	return result, nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", rows.Err())
	}
	return mapping.ToDomainClientSlice(clients), nil
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (client_id, name, email, address, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		m.ClientID,
		m.Name,
		m.Email,
		m.Address,
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
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET name = $2, email = $3, address = $4, last_updated_at = $5, last_updated_by = $6
		WHERE client_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.ClientID,
		m.Name,
		m.Email,
		m.Address,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", m.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
