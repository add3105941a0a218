package repositories

import (
	"context"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// SettingsRepositoryFacade is the record-store contract for the cabinet
// settings singleton. The numbering counters it holds are only ever advanced
// inside the issuance/credit transactions of the invoice and credit-note
// repositories; there is deliberately no standalone "increment counter"
// operation on this contract.
type SettingsRepositoryFacade interface {
	GetSettings(ctx context.Context) (*domain.CabinetSettings, error)

	// UpdateSettings persists the display fields and billing defaults. The
	// counters are not touched by this call.
	UpdateSettings(ctx context.Context, settings domain.CabinetSettings) error
}
