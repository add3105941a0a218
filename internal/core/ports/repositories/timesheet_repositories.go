package repositories

import (
	"context"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// TimesheetFilter narrows a timesheet listing. Nil fields are ignored.
type TimesheetFilter struct {
	MatterID       *string
	CollaboratorID *string
	ClientID       *string
	From           *time.Time
	To             *time.Time
	OnlyBillable   bool
	OnlyUnlocked   bool
}

// TimesheetReader defines read operations for timesheet entries
type TimesheetReader interface {
	// FindEntryByID retrieves a single timesheet entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.TimesheetEntry, error)

	// FindEntriesByIDs retrieves a batch of entries keyed by id. Missing ids
	// are simply absent from the map.
	FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.TimesheetEntry, error)

	// ListEntries retrieves entries matching the filter, ordered by date.
	ListEntries(ctx context.Context, filter TimesheetFilter) ([]domain.TimesheetEntry, error)
}

// TimesheetWriter defines write operations for timesheet entries
type TimesheetWriter interface {
	// SaveEntry inserts a new timesheet entry.
	SaveEntry(ctx context.Context, entry domain.TimesheetEntry) error

	// UpdateEntry updates a mutable (unlocked) entry.
	UpdateEntry(ctx context.Context, entry domain.TimesheetEntry) error

	// DeleteEntry removes an unlocked entry.
	DeleteEntry(ctx context.Context, entryID string) error
}

// TimesheetRepositoryFacade combines timesheet read and write contracts.
type TimesheetRepositoryFacade interface {
	TimesheetReader
	TimesheetWriter
}
