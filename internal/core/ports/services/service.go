package services

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality and is what the
// handlers receive.
type ServiceContainer struct {
	Client     ClientSvcFacade
	Profile    ProfileSvcFacade
	Matter     MatterSvcFacade
	Timesheet  TimesheetSvcFacade
	Expense    ExpenseSvcFacade
	Invoice    InvoiceSvcFacade
	CreditNote CreditNoteSvcFacade
	Settings   SettingsSvcFacade
	Reporting  ReportingSvcFacade
}
