package dto

import "time"

// CreateTimesheetEntryRequest creates a new timesheet entry. Minutes may be
// raw; the service rounds them up to the next quarter-hour on write.
type CreateTimesheetEntryRequest struct {
	CollaboratorID string    `json:"collaboratorID" binding:"required"`
	MatterID       string    `json:"matterID" binding:"required"`
	EntryDate      time.Time `json:"entryDate" binding:"required"`
	Minutes        int64     `json:"minutes" binding:"required"`
	IsBillable     *bool     `json:"isBillable"` // defaults to true
	Description    string    `json:"description"`
}

// UpdateTimesheetEntryRequest mutates an unlocked entry. Nil fields are left
// untouched.
type UpdateTimesheetEntryRequest struct {
	EntryDate   *time.Time `json:"entryDate"`
	Minutes     *int64     `json:"minutes"`
	IsBillable  *bool      `json:"isBillable"`
	Description *string    `json:"description"`
}

// CreateExpenseRequest creates a new expense, recorded TTC.
type CreateExpenseRequest struct {
	CollaboratorID string    `json:"collaboratorID" binding:"required"`
	MatterID       string    `json:"matterID" binding:"required"`
	ExpenseDate    time.Time `json:"expenseDate" binding:"required"`
	Nature         string    `json:"nature" binding:"required"`
	AmountTTCCents int64     `json:"amountTTCCents" binding:"required,gt=0"`
	IsBillable     *bool     `json:"isBillable"` // defaults to true
}

// UpdateExpenseRequest mutates an unlocked expense.
type UpdateExpenseRequest struct {
	ExpenseDate    *time.Time `json:"expenseDate"`
	Nature         *string    `json:"nature"`
	AmountTTCCents *int64     `json:"amountTTCCents"`
	IsBillable     *bool      `json:"isBillable"`
}
