package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/billing"
)

var (
	ErrReasonMissing      = errors.New("credit note reason is required")
	ErrCreditAmountRange  = errors.New("credit amount must be positive and not exceed the invoice total")
	ErrCreditExceedsLeft  = errors.New("cumulated credit notes would exceed the invoice total")
	ErrInvoiceNotCredible = errors.New("only issued invoices can be credited")
)

// creditNoteService derives full or proportional reversals of issued
// invoices. Credit notes have no draft state: numbering happens at creation,
// inside the repository transaction that inserts the note.
type creditNoteService struct {
	BaseService
	creditNoteRepo portsrepo.CreditNoteRepositoryFacade
	invoiceRepo    portsrepo.InvoiceReader
	now            func() time.Time
}

// CreditNoteServiceOption configures the credit note service.
type CreditNoteServiceOption func(*creditNoteService)

// WithCreditNoteClock overrides the clock for tests.
func WithCreditNoteClock(now func() time.Time) CreditNoteServiceOption {
	return func(s *creditNoteService) {
		s.now = now
	}
}

// NewCreditNoteService creates the credit note calculator.
func NewCreditNoteService(creditNoteRepo portsrepo.CreditNoteRepositoryFacade, invoiceRepo portsrepo.InvoiceReader, options ...CreditNoteServiceOption) portssvc.CreditNoteSvcFacade {
	svc := &creditNoteService{
		creditNoteRepo: creditNoteRepo,
		invoiceRepo:    invoiceRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CreditNoteSvcFacade = (*creditNoteService)(nil)

// CreateCreditNote computes and persists a credit note against an issued
// invoice. The total case copies the invoice amounts exactly and cancels the
// invoice; the partial case takes the requested TTC as authoritative and
// derives HT/VAT proportionally (accepted tolerance: HT+VAT may differ from
// TTC by one cent). Cumulated partial credits are capped at the invoice's
// original total. Implements portssvc.CreditNoteSvcFacade.
func (s *creditNoteService) CreateCreditNote(ctx context.Context, invoiceID string, req dto.CreateCreditNoteRequest, creatorID string) (*domain.CreditNote, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonMissing
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceIssued {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvoiceNotCredible, invoiceID, invoice.Status)
	}

	existing, err := s.creditNoteRepo.ListCreditNotesByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing credit notes: %w", err)
	}
	var alreadyCredited int64
	for _, note := range existing {
		alreadyCredited += note.TTCCents
	}

	now := s.now()
	note := domain.CreditNote{
		CreditNoteID: uuid.NewString(),
		InvoiceID:    invoiceID,
		IssueDate:    now,
		Reason:       req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	cancelInvoice := false
	if req.Total {
		note.HTCents = invoice.TotalHT
		note.VATCents = invoice.TotalVAT
		note.TTCCents = invoice.TotalTTC
		cancelInvoice = true
		if alreadyCredited > 0 {
			return nil, fmt.Errorf("%w: %d cents already credited", ErrCreditExceedsLeft, alreadyCredited)
		}
	} else {
		if req.AmountTTCCents == nil || *req.AmountTTCCents <= 0 || *req.AmountTTCCents > invoice.TotalTTC {
			return nil, fmt.Errorf("%w: invoice TTC is %d cents", ErrCreditAmountRange, invoice.TotalTTC)
		}
		partialTTC := *req.AmountTTCCents
		if alreadyCredited+partialTTC > invoice.TotalTTC {
			return nil, fmt.Errorf("%w: %d cents already credited", ErrCreditExceedsLeft, alreadyCredited)
		}

		// The caller-specified TTC is authoritative; HT and VAT follow the
		// invoice's proportions.
		note.TTCCents = partialTTC
		note.HTCents = billing.ApplyRatio(invoice.TotalHT, partialTTC, invoice.TotalTTC)
		note.VATCents = billing.ApplyRatio(invoice.TotalVAT, partialTTC, invoice.TotalTTC)

		// A partial credit note that reaches the remaining total still
		// cancels the invoice, matching the total case.
		if alreadyCredited+partialTTC == invoice.TotalTTC {
			cancelInvoice = true
		}
	}

	saved, err := s.creditNoteRepo.SaveCreditNote(ctx, note, cancelInvoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to save credit note", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Credit note created",
		slog.String("credit_note_id", saved.CreditNoteID),
		slog.String("number", saved.Number),
		slog.String("invoice_id", invoiceID),
		slog.Int64("ttc_cents", saved.TTCCents),
		slog.Bool("invoice_cancelled", cancelInvoice))
	return saved, nil
}

// GetCreditNote implements portssvc.CreditNoteSvcFacade.
func (s *creditNoteService) GetCreditNote(ctx context.Context, creditNoteID string) (*domain.CreditNote, error) {
	return s.creditNoteRepo.FindCreditNoteByID(ctx, creditNoteID)
}

// ListCreditNotesByInvoice implements portssvc.CreditNoteSvcFacade.
func (s *creditNoteService) ListCreditNotesByInvoice(ctx context.Context, invoiceID string) ([]domain.CreditNote, error) {
	return s.creditNoteRepo.ListCreditNotesByInvoice(ctx, invoiceID)
}

// ListCreditNotes implements portssvc.CreditNoteSvcFacade.
func (s *creditNoteService) ListCreditNotes(ctx context.Context, from, to *time.Time) ([]domain.CreditNote, error) {
	return s.creditNoteRepo.ListCreditNotes(ctx, from, to)
}
