package services

import (
	"context"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

// TimesheetSvcFacade manages timesheet entries; the lock flag makes consumed
// entries immutable here.
type TimesheetSvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateTimesheetEntryRequest, creatorID string) (*domain.TimesheetEntry, error)

	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateTimesheetEntryRequest, updaterID string) (*domain.TimesheetEntry, error)

	DeleteEntry(ctx context.Context, entryID string) error

	GetEntry(ctx context.Context, entryID string) (*domain.TimesheetEntry, error)

	ListEntries(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.TimesheetEntry, error)
}

// ExpenseSvcFacade manages expenses, same lock lifecycle as timesheets.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorID string) (*domain.Expense, error)

	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, updaterID string) (*domain.Expense, error)

	DeleteExpense(ctx context.Context, expenseID string) error

	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)

	ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, error)
}

// MatterSvcFacade manages matters.
type MatterSvcFacade interface {
	CreateMatter(ctx context.Context, req dto.CreateMatterRequest, creatorID string) (*domain.Matter, error)

	UpdateMatter(ctx context.Context, matterID string, req dto.UpdateMatterRequest, updaterID string) (*domain.Matter, error)

	GetMatter(ctx context.Context, matterID string) (*domain.Matter, error)

	ListMatters(ctx context.Context, clientID *string, includeArchived bool) ([]domain.Matter, error)
}

// ClientSvcFacade manages client records.
type ClientSvcFacade interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorID string) (*domain.Client, error)

	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, updaterID string) (*domain.Client, error)

	GetClient(ctx context.Context, clientID string) (*domain.Client, error)

	ListClients(ctx context.Context) ([]domain.Client, error)
}

// ProfileSvcFacade manages collaborator profiles and authentication.
type ProfileSvcFacade interface {
	CreateProfile(ctx context.Context, req dto.CreateProfileRequest, creatorID string) (*domain.Profile, error)

	UpdateProfile(ctx context.Context, profileID string, req dto.UpdateProfileRequest, updaterID string) (*domain.Profile, error)

	GetProfile(ctx context.Context, profileID string) (*domain.Profile, error)

	ListProfiles(ctx context.Context, includeInactive bool) ([]domain.Profile, error)

	// Authenticate verifies credentials and returns the matching profile.
	Authenticate(ctx context.Context, email, password string) (*domain.Profile, error)
}

// SettingsSvcFacade exposes the cabinet settings singleton. Counters are
// read-only from here.
type SettingsSvcFacade interface {
	GetSettings(ctx context.Context) (*domain.CabinetSettings, error)

	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, updaterID string) (*domain.CabinetSettings, error)
}
