package repositories

import (
	"context"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// InvoiceFilter narrows an invoice listing. Nil fields are ignored.
type InvoiceFilter struct {
	MatterID   *string
	ClientID   *string
	Status     *domain.InvoiceStatus
	UnpaidOnly bool
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

// IssuanceFallback describes the period-scoped lock fallback applied to
// invoices whose lines carry no back-references (legacy data): every
// still-unlocked billable entry of the matter dated inside the period gets
// locked.
type IssuanceFallback struct {
	MatterID   string
	PeriodFrom time.Time
	PeriodTo   time.Time
}

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its ordered lines.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices (lines included) matching the filter.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// SaveInvoice inserts a draft invoice and its lines.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// ReplaceDraftLines swaps a draft's lines and totals for a rebuilt set.
	ReplaceDraftLines(ctx context.Context, invoice domain.Invoice) error

	// DeleteDraftInvoice removes a draft invoice and its lines. Fails on any
	// other status.
	DeleteDraftInvoice(ctx context.Context, invoiceID string) error

	// IssueInvoice performs the whole issuance as one transaction: allocates
	// the next invoice number (year-scoped, under row lock), stamps the
	// invoice issued with its number and issue date, and locks every
	// consumed timesheet entry and expense. A nil fallback means all lines
	// carried explicit back-references. Any failure rolls the whole
	// operation back; in particular a numbering failure locks nothing.
	IssueInvoice(ctx context.Context, invoiceID string, issueDate time.Time, entryIDs, expenseIDs []string, fallback *IssuanceFallback, updatedBy string) (number string, err error)

	// VoidInvoice cancels an issued invoice that has no credit notes and
	// unlocks the records it had consumed, as one transaction. The number
	// is never reused.
	VoidInvoice(ctx context.Context, invoiceID string, entryIDs, expenseIDs []string, fallback *IssuanceFallback, updatedBy string) error

	// MarkInvoicePaid flips the paid flag and payment date of an issued invoice.
	MarkInvoicePaid(ctx context.Context, invoiceID string, paid bool, paymentDate *time.Time, updatedBy string) error
}

// InvoiceRepositoryFacade combines invoice read and write contracts.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// CreditNoteRepositoryFacade is the record-store contract for credit notes.
type CreditNoteRepositoryFacade interface {
	FindCreditNoteByID(ctx context.Context, creditNoteID string) (*domain.CreditNote, error)

	ListCreditNotesByInvoice(ctx context.Context, invoiceID string) ([]domain.CreditNote, error)

	ListCreditNotes(ctx context.Context, from, to *time.Time) ([]domain.CreditNote, error)

	// SaveCreditNote allocates the credit-note number and inserts the note in
	// one transaction; when cancelInvoice is set (total reversal) the same
	// transaction flips the invoice to cancelled. The allocated number is
	// written into the returned note.
	SaveCreditNote(ctx context.Context, note domain.CreditNote, cancelInvoice bool) (*domain.CreditNote, error)
}
