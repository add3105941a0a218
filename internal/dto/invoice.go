package dto

import "time"

// SelectedEntry is one timesheet entry the caller picked for invoicing, with
// optional per-entry overrides applied at invoice-creation time only.
type SelectedEntry struct {
	EntryID         string `json:"entryID" binding:"required"`
	MinutesOverride *int64 `json:"minutesOverride" binding:"omitempty,gt=0"`
	RateOverride    *int64 `json:"rateOverride" binding:"omitempty,gt=0"` // hourly rate cents, wins over every resolved rate
}

// SelectedExpense is one expense picked for invoicing. AmountOverride
// replaces the recorded TTC; the original amount is not a hard ceiling.
type SelectedExpense struct {
	ExpenseID      string `json:"expenseID" binding:"required"`
	AmountOverride *int64 `json:"amountOverride" binding:"omitempty,gt=0"` // TTC cents
}

// BuildInvoiceRequest builds a draft invoice from a matter, a period and a
// caller-selected subset of its unlocked billable records.
type BuildInvoiceRequest struct {
	MatterID            string            `json:"matterID" binding:"required"`
	PeriodFrom          time.Time         `json:"periodFrom" binding:"required"`
	PeriodTo            time.Time         `json:"periodTo" binding:"required"`
	Entries             []SelectedEntry   `json:"entries"`
	Expenses            []SelectedExpense `json:"expenses"`
	GroupByCollaborator bool              `json:"groupByCollaborator"`
	CustomTotalHT       *int64            `json:"customTotalHT" binding:"omitempty,gt=0"` // rescales every line, see billing service
}

// MarkInvoicePaidRequest records (or clears) payment of an issued invoice.
type MarkInvoicePaidRequest struct {
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"paymentDate"` // defaults to today when Paid is set
}

// CreateCreditNoteRequest reverses an issued invoice, totally or partially.
// Total=true copies the invoice totals and cancels the invoice; otherwise
// AmountTTCCents is mandatory, must be > 0 and, cumulated with prior credit
// notes, must not exceed the invoice's TTC.
type CreateCreditNoteRequest struct {
	Reason         string `json:"reason" binding:"required"`
	Total          bool   `json:"total"`
	AmountTTCCents *int64 `json:"amountTTCCents" binding:"omitempty,gt=0"`
}
