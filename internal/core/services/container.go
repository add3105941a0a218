package services

import (
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Client = NewClientService(repos.ClientRepo)
	container.Profile = NewProfileService(repos.ProfileRepo)
	container.Matter = NewMatterService(repos.MatterRepo, repos.ClientRepo, repos.SettingsRepo)
	container.Timesheet = NewTimesheetService(repos.TimesheetRepo, repos.MatterRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.MatterRepo)
	container.Settings = NewSettingsService(repos.SettingsRepo)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.CreditNoteRepo,
		repos.MatterRepo,
		repos.TimesheetRepo,
		repos.ExpenseRepo,
		repos.ProfileRepo,
		repos.SettingsRepo,
	)
	container.CreditNote = NewCreditNoteService(repos.CreditNoteRepo, repos.InvoiceRepo)

	container.Reporting = NewReportingService(
		repos.TimesheetRepo,
		repos.InvoiceRepo,
		repos.MatterRepo,
		repos.ClientRepo,
		repos.ProfileRepo,
		repos.SettingsRepo,
	)

	return container
}
