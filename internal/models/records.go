package models

import "time"

// Client mirrors the clients table.
type Client struct {
	ClientID string `db:"client_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Address  string `db:"address"`
	AuditFields
}

// Profile mirrors the profiles table.
type Profile struct {
	ProfileID       string `db:"profile_id"`
	Name            string `db:"name"`
	Email           string `db:"email"`
	PasswordHash    string `db:"password_hash"`
	HourlyRateCents *int64 `db:"hourly_rate_cents"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}

// Matter mirrors the matters table.
type Matter struct {
	MatterID        string `db:"matter_id"`
	ClientID        string `db:"client_id"`
	Label           string `db:"label"`
	BillingType     string `db:"billing_type"`
	HourlyRateCents *int64 `db:"hourly_rate_cents"`
	FlatFeeCents    *int64 `db:"flat_fee_cents"`
	VATRate         int64  `db:"vat_rate"`
	IsArchived      bool   `db:"is_archived"`
	AuditFields
}

// TimesheetEntry mirrors the timesheet_entries table.
type TimesheetEntry struct {
	EntryID        string    `db:"entry_id"`
	CollaboratorID string    `db:"collaborator_id"`
	MatterID       string    `db:"matter_id"`
	EntryDate      time.Time `db:"entry_date"`
	Minutes        int64     `db:"minutes"`
	IsBillable     bool      `db:"is_billable"`
	Locked         bool      `db:"locked"`
	Description    string    `db:"description"`
	AuditFields
}

// Expense mirrors the expenses table.
type Expense struct {
	ExpenseID      string    `db:"expense_id"`
	CollaboratorID string    `db:"collaborator_id"`
	ClientID       string    `db:"client_id"`
	MatterID       string    `db:"matter_id"`
	ExpenseDate    time.Time `db:"expense_date"`
	Nature         string    `db:"nature"`
	AmountTTCCents int64     `db:"amount_ttc_cents"`
	IsBillable     bool      `db:"is_billable"`
	Locked         bool      `db:"locked"`
	AuditFields
}
