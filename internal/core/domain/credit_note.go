package domain

import "time"

// CreditNote (avoir) reverses all or part of exactly one issued invoice.
// Credit notes have no draft state: the number is allocated at creation.
// TTC never exceeds the invoice's TTC; equality cancels the invoice.
type CreditNote struct {
	CreditNoteID string    `json:"creditNoteID"` // Primary Key (UUID)
	InvoiceID    string    `json:"invoiceID"`    // FK -> Invoice
	Number       string    `json:"number"`
	IssueDate    time.Time `json:"issueDate"`
	Reason       string    `json:"reason"`
	HTCents      int64     `json:"htCents"`
	VATCents     int64     `json:"vatCents"`
	TTCCents     int64     `json:"ttcCents"`
	AuditFields
}
