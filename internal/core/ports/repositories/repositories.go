package repositories

// RepositoryProvider bundles every repository the service container needs.
type RepositoryProvider struct {
	ClientRepo     ClientRepositoryFacade
	ProfileRepo    ProfileRepositoryFacade
	MatterRepo     MatterRepositoryFacade
	TimesheetRepo  TimesheetRepositoryFacade
	ExpenseRepo    ExpenseRepositoryFacade
	InvoiceRepo    InvoiceRepositoryFacade
	CreditNoteRepo CreditNoteRepositoryFacade
	SettingsRepo   SettingsRepositoryFacade
}
