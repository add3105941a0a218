package services

import (
	"context"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

// InvoiceSvcFacade is the write side of the billing engine: draft building,
// issuance (numbering + locking as one transaction), voiding and payment.
type InvoiceSvcFacade interface {
	// BuildDraftInvoice converts a selection of unlocked billable records
	// into a persisted draft invoice with computed lines and totals.
	BuildDraftInvoice(ctx context.Context, req dto.BuildInvoiceRequest, creatorID string) (*domain.Invoice, error)

	// RebuildDraftInvoice recomputes an existing draft from a new selection.
	RebuildDraftInvoice(ctx context.Context, invoiceID string, req dto.BuildInvoiceRequest, updaterID string) (*domain.Invoice, error)

	// IssueInvoice allocates the invoice number, stamps the issue date and
	// locks every consumed record, atomically.
	IssueInvoice(ctx context.Context, invoiceID string, issuerID string) (*domain.Invoice, error)

	// VoidInvoice cancels an issued invoice with no credit notes and
	// unlocks the records it consumed. The number is not reused.
	VoidInvoice(ctx context.Context, invoiceID string, updaterID string) error

	// DeleteDraftInvoice removes a draft.
	DeleteDraftInvoice(ctx context.Context, invoiceID string) error

	// MarkInvoicePaid records or clears payment of an issued invoice.
	MarkInvoicePaid(ctx context.Context, invoiceID string, req dto.MarkInvoicePaidRequest, updaterID string) error

	// GetInvoice fetches an invoice with its lines.
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices fetches invoices matching the filter.
	ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error)
}

// CreditNoteSvcFacade derives full or proportional reversals of issued
// invoices.
type CreditNoteSvcFacade interface {
	CreateCreditNote(ctx context.Context, invoiceID string, req dto.CreateCreditNoteRequest, creatorID string) (*domain.CreditNote, error)

	GetCreditNote(ctx context.Context, creditNoteID string) (*domain.CreditNote, error)

	ListCreditNotesByInvoice(ctx context.Context, invoiceID string) ([]domain.CreditNote, error)

	ListCreditNotes(ctx context.Context, from, to *time.Time) ([]domain.CreditNote, error)
}
