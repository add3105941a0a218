package repositories

import (
	"context"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// MatterRepositoryFacade is the record-store contract for matters.
type MatterRepositoryFacade interface {
	FindMatterByID(ctx context.Context, matterID string) (*domain.Matter, error)

	ListMatters(ctx context.Context, clientID *string, includeArchived bool) ([]domain.Matter, error)

	SaveMatter(ctx context.Context, matter domain.Matter) error

	UpdateMatter(ctx context.Context, matter domain.Matter) error
}

// ClientRepositoryFacade is the record-store contract for clients.
type ClientRepositoryFacade interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	FindClientsByIDs(ctx context.Context, clientIDs []string) (map[string]domain.Client, error)

	ListClients(ctx context.Context) ([]domain.Client, error)

	SaveClient(ctx context.Context, client domain.Client) error

	UpdateClient(ctx context.Context, client domain.Client) error
}

// ProfileRepositoryFacade is the record-store contract for collaborator profiles.
type ProfileRepositoryFacade interface {
	FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error)

	FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error)

	FindProfilesByIDs(ctx context.Context, profileIDs []string) (map[string]domain.Profile, error)

	ListProfiles(ctx context.Context, includeInactive bool) ([]domain.Profile, error)

	SaveProfile(ctx context.Context, profile domain.Profile) error

	UpdateProfile(ctx context.Context, profile domain.Profile) error
}
