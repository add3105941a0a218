package pgsql

import (
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ClientRepo:     newPgxClientRepository(dbPool),
		ProfileRepo:    newPgxProfileRepository(dbPool),
		MatterRepo:     newPgxMatterRepository(dbPool),
		TimesheetRepo:  newPgxTimesheetRepository(dbPool),
		ExpenseRepo:    newPgxExpenseRepository(dbPool),
		InvoiceRepo:    newPgxInvoiceRepository(dbPool),
		CreditNoteRepo: newPgxCreditNoteRepository(dbPool),
		SettingsRepo:   newPgxSettingsRepository(dbPool),
	}
}
