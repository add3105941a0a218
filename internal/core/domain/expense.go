package domain

import "time"

// Expense is a disbursement advanced for a client, recorded TTC (tax
// included) because that is what the receipt shows. Same lock lifecycle as
// TimesheetEntry.
type Expense struct {
	ExpenseID      string    `json:"expenseID"`      // Primary Key (UUID)
	CollaboratorID string    `json:"collaboratorID"` // FK -> Profile
	ClientID       string    `json:"clientID"`       // FK -> Client
	MatterID       string    `json:"matterID"`       // FK -> Matter
	ExpenseDate    time.Time `json:"expenseDate"`
	Nature         string    `json:"nature"`
	AmountTTCCents int64     `json:"amountTTCCents"`
	IsBillable     bool      `json:"isBillable"`
	Locked         bool      `json:"locked"`
	AuditFields
}
