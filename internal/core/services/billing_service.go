package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/billing"
)

var (
	ErrNoRecordsSelected = errors.New("no billable timesheet entries or expenses selected")
	ErrFlatFeeMissing    = errors.New("matter has no flat-fee amount configured")
	ErrRecordNotBillable = errors.New("selected record is not billable")
	ErrRecordLocked      = errors.New("selected record is already locked by an issued invoice")
	ErrWrongMatter       = errors.New("selected record does not belong to the invoice's matter")
	ErrMatterChanged     = errors.New("a draft invoice cannot move to another matter")
	ErrNotDraft          = errors.New("invoice is not a draft")
	ErrNotIssued         = errors.New("invoice is not issued")
	ErrHasCreditNotes    = errors.New("invoice has credit notes and can no longer be voided")
	ErrInvalidPeriod     = errors.New("invoice period end precedes its start")
)

// invoiceService implements the billing engine's write side: building draft
// invoices from selected records, issuing them (numbering + locking in one
// transaction) and managing their lifecycle.
type invoiceService struct {
	BaseService
	invoiceRepo    portsrepo.InvoiceRepositoryFacade
	creditNoteRepo portsrepo.CreditNoteRepositoryFacade
	matterRepo     portsrepo.MatterRepositoryFacade
	timesheetRepo  portsrepo.TimesheetReader
	expenseRepo    portsrepo.ExpenseReader
	profileRepo    portsrepo.ProfileRepositoryFacade
	settingsRepo   portsrepo.SettingsRepositoryFacade
	now            func() time.Time
}

// InvoiceServiceOption configures the invoice service.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceClock overrides the clock, used by tests to pin issue dates.
func WithInvoiceClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates the billing engine service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	creditNoteRepo portsrepo.CreditNoteRepositoryFacade,
	matterRepo portsrepo.MatterRepositoryFacade,
	timesheetRepo portsrepo.TimesheetReader,
	expenseRepo portsrepo.ExpenseReader,
	profileRepo portsrepo.ProfileRepositoryFacade,
	settingsRepo portsrepo.SettingsRepositoryFacade,
	options ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo:    invoiceRepo,
		creditNoteRepo: creditNoteRepo,
		matterRepo:     matterRepo,
		timesheetRepo:  timesheetRepo,
		expenseRepo:    expenseRepo,
		profileRepo:    profileRepo,
		settingsRepo:   settingsRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// BuildDraftInvoice validates the selection, computes the lines and totals
// and persists the draft. Implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) BuildDraftInvoice(ctx context.Context, req dto.BuildInvoiceRequest, creatorID string) (*domain.Invoice, error) {
	now := s.now()

	invoice := domain.Invoice{
		InvoiceID:  uuid.NewString(),
		MatterID:   req.MatterID,
		Status:     domain.InvoiceDraft,
		PeriodFrom: req.PeriodFrom,
		PeriodTo:   req.PeriodTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.computeLines(ctx, &invoice, req); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to persist draft invoice", slog.String("matter_id", req.MatterID))
		return nil, fmt.Errorf("failed to save draft invoice: %w", err)
	}

	s.LogInfo(ctx, "Draft invoice built",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("matter_id", invoice.MatterID),
		slog.Int("line_count", len(invoice.Lines)),
		slog.Int64("total_ttc_cents", invoice.TotalTTC))
	return &invoice, nil
}

// RebuildDraftInvoice recomputes a draft from a new selection, keeping its
// identity. Implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) RebuildDraftInvoice(ctx context.Context, invoiceID string, req dto.BuildInvoiceRequest, updaterID string) (*domain.Invoice, error) {
	existing, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: %s", ErrNotDraft, invoiceID)
	}
	if req.MatterID != existing.MatterID {
		// The stored row keeps its matter; recomputing lines against another
		// matter would desynchronize them.
		return nil, fmt.Errorf("%w: invoice %s belongs to matter %s", ErrMatterChanged, invoiceID, existing.MatterID)
	}

	invoice := *existing
	invoice.PeriodFrom = req.PeriodFrom
	invoice.PeriodTo = req.PeriodTo
	invoice.LastUpdatedAt = s.now()
	invoice.LastUpdatedBy = updaterID

	if err := s.computeLines(ctx, &invoice, req); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.ReplaceDraftLines(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to replace draft lines", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update draft invoice: %w", err)
	}
	return &invoice, nil
}

// computeLines fills invoice.Lines and the totals from the request selection.
// The invoice's matter id and period must already be set.
func (s *invoiceService) computeLines(ctx context.Context, invoice *domain.Invoice, req dto.BuildInvoiceRequest) error {
	if invoice.PeriodTo.Before(invoice.PeriodFrom) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidPeriod,
			invoice.PeriodFrom.Format("2006-01-02"), invoice.PeriodTo.Format("2006-01-02"))
	}

	matter, err := s.matterRepo.FindMatterByID(ctx, invoice.MatterID)
	if err != nil {
		return err
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cabinet settings: %w", err)
	}

	var lines []domain.InvoiceLine
	switch matter.BillingType {
	case domain.FlatFee:
		line, err := s.flatFeeLine(invoice.InvoiceID, *matter)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	case domain.TimeBased:
		if len(req.Entries) == 0 && len(req.Expenses) == 0 {
			return fmt.Errorf("%w: matter %s", ErrNoRecordsSelected, matter.MatterID)
		}
		timeLines, err := s.timeLines(ctx, invoice.InvoiceID, *matter, *settings, req)
		if err != nil {
			return err
		}
		lines = append(lines, timeLines...)
	default:
		return fmt.Errorf("%w: unknown billing type %q", apperrors.ErrValidation, matter.BillingType)
	}

	expenseLines, err := s.expenseLines(ctx, invoice.InvoiceID, *matter, req.Expenses)
	if err != nil {
		return err
	}
	lines = append(lines, expenseLines...)

	if req.CustomTotalHT != nil {
		rescaleLines(lines, *req.CustomTotalHT)
	}

	for i := range lines {
		lines[i].Position = i
	}

	invoice.Lines = lines
	invoice.TotalHT, invoice.TotalVAT, invoice.TotalTTC = sumLines(lines)
	return nil
}

// flatFeeLine builds the single line of a flat-fee matter.
func (s *invoiceService) flatFeeLine(invoiceID string, matter domain.Matter) (domain.InvoiceLine, error) {
	if matter.FlatFeeCents == nil {
		return domain.InvoiceLine{}, fmt.Errorf("%w: matter %s", ErrFlatFeeMissing, matter.MatterID)
	}
	ht := *matter.FlatFeeCents
	vat, ttc := billing.VATFromHT(ht, matter.VATRate)
	return domain.InvoiceLine{
		LineID:    uuid.NewString(),
		InvoiceID: invoiceID,
		Label:     fmt.Sprintf("Flat fee - %s", matter.Label),
		VATRate:   matter.VATRate,
		HTCents:   ht,
		VATCents:  vat,
		TTCCents:  ttc,
	}, nil
}

// pricedEntry is a selected timesheet entry with its effective minutes and
// rate resolved.
type pricedEntry struct {
	entry   domain.TimesheetEntry
	minutes int64
	rate    int64
}

// timeLines builds the fee lines of a time-based matter: one line overall, or
// one line per collaborator when grouping is requested. Each line retains the
// entry ids it consumes so issuance can lock them.
func (s *invoiceService) timeLines(ctx context.Context, invoiceID string, matter domain.Matter, settings domain.CabinetSettings, req dto.BuildInvoiceRequest) ([]domain.InvoiceLine, error) {
	if len(req.Entries) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(req.Entries))
	seen := make(map[string]struct{}, len(req.Entries))
	for _, sel := range req.Entries {
		if _, dup := seen[sel.EntryID]; dup {
			return nil, fmt.Errorf("%w: entry %s selected twice", apperrors.ErrValidation, sel.EntryID)
		}
		seen[sel.EntryID] = struct{}{}
		ids = append(ids, sel.EntryID)
	}

	entries, err := s.timesheetRepo.FindEntriesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selected entries: %w", err)
	}

	collaboratorIDs := make(map[string]struct{})
	priced := make([]pricedEntry, 0, len(req.Entries))
	for _, sel := range req.Entries {
		entry, found := entries[sel.EntryID]
		if !found {
			return nil, fmt.Errorf("%w: timesheet entry %s", apperrors.ErrNotFound, sel.EntryID)
		}
		if entry.MatterID != matter.MatterID {
			return nil, fmt.Errorf("%w: entry %s", ErrWrongMatter, sel.EntryID)
		}
		if !entry.IsBillable {
			return nil, fmt.Errorf("%w: entry %s", ErrRecordNotBillable, sel.EntryID)
		}
		if entry.Locked {
			return nil, fmt.Errorf("%w: entry %s", ErrRecordLocked, sel.EntryID)
		}
		collaboratorIDs[entry.CollaboratorID] = struct{}{}

		minutes := billing.RoundMinutes(entry.Minutes)
		if sel.MinutesOverride != nil {
			minutes = *sel.MinutesOverride
		}
		// rate resolved below, once profiles are loaded
		priced = append(priced, pricedEntry{entry: entry, minutes: minutes})
	}

	profiles, err := s.profileRepo.FindProfilesByIDs(ctx, mapKeys(collaboratorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collaborator profiles: %w", err)
	}

	for i, sel := range req.Entries {
		var profile *domain.Profile
		if p, found := profiles[priced[i].entry.CollaboratorID]; found {
			profile = &p
		}
		priced[i].rate = ResolveHourlyRate(sel.RateOverride, profile, matter, settings)
	}

	if !req.GroupByCollaborator {
		line := buildTimeLine(invoiceID, "Fees", matter.VATRate, priced)
		return []domain.InvoiceLine{line}, nil
	}

	// One line per collaborator, ordered by name for a stable invoice layout.
	byCollaborator := make(map[string][]pricedEntry)
	for _, pe := range priced {
		byCollaborator[pe.entry.CollaboratorID] = append(byCollaborator[pe.entry.CollaboratorID], pe)
	}
	collabs := make([]string, 0, len(byCollaborator))
	for id := range byCollaborator {
		collabs = append(collabs, id)
	}
	sort.Slice(collabs, func(i, j int) bool {
		return profiles[collabs[i]].Name < profiles[collabs[j]].Name
	})

	lines := make([]domain.InvoiceLine, 0, len(collabs))
	for _, collaboratorID := range collabs {
		label := "Fees"
		if p, found := profiles[collaboratorID]; found {
			label = fmt.Sprintf("Fees - %s", p.Name)
		}
		lines = append(lines, buildTimeLine(invoiceID, label, matter.VATRate, byCollaborator[collaboratorID]))
	}
	return lines, nil
}

// buildTimeLine aggregates priced entries into a single fee line: total
// minutes, minutes-weighted average rate, HT from minutes x rate.
func buildTimeLine(invoiceID, label string, vatRate int64, priced []pricedEntry) domain.InvoiceLine {
	minutes := make([]int64, len(priced))
	rates := make([]int64, len(priced))
	entryIDs := make([]string, len(priced))
	var totalMinutes int64
	for i, pe := range priced {
		minutes[i] = pe.minutes
		rates[i] = pe.rate
		entryIDs[i] = pe.entry.EntryID
		totalMinutes += pe.minutes
	}

	avgRate := billing.WeightedAverageRate(minutes, rates)
	ht := billing.AmountForTime(totalMinutes, avgRate)
	vat, ttc := billing.VATFromHT(ht, vatRate)

	return domain.InvoiceLine{
		LineID:    uuid.NewString(),
		InvoiceID: invoiceID,
		Label:     label,
		Minutes:   totalMinutes,
		RateCents: avgRate,
		VATRate:   vatRate,
		HTCents:   ht,
		VATCents:  vat,
		TTCCents:  ttc,
		EntryIDs:  entryIDs,
	}
}

// expenseLines converts each selected expense into its own line, deriving
// HT/VAT from the (possibly overridden) TTC amount. The recorded amount is
// not enforced as a ceiling on the override.
func (s *invoiceService) expenseLines(ctx context.Context, invoiceID string, matter domain.Matter, selection []dto.SelectedExpense) ([]domain.InvoiceLine, error) {
	if len(selection) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(selection))
	seen := make(map[string]struct{}, len(selection))
	for _, sel := range selection {
		if _, dup := seen[sel.ExpenseID]; dup {
			return nil, fmt.Errorf("%w: expense %s selected twice", apperrors.ErrValidation, sel.ExpenseID)
		}
		seen[sel.ExpenseID] = struct{}{}
		ids = append(ids, sel.ExpenseID)
	}

	expenses, err := s.expenseRepo.FindExpensesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selected expenses: %w", err)
	}

	lines := make([]domain.InvoiceLine, 0, len(selection))
	for _, sel := range selection {
		expense, found := expenses[sel.ExpenseID]
		if !found {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, sel.ExpenseID)
		}
		if expense.MatterID != matter.MatterID {
			return nil, fmt.Errorf("%w: expense %s", ErrWrongMatter, sel.ExpenseID)
		}
		if !expense.IsBillable {
			return nil, fmt.Errorf("%w: expense %s", ErrRecordNotBillable, sel.ExpenseID)
		}
		if expense.Locked {
			return nil, fmt.Errorf("%w: expense %s", ErrRecordLocked, sel.ExpenseID)
		}

		ttc := expense.AmountTTCCents
		if sel.AmountOverride != nil {
			ttc = *sel.AmountOverride
		}
		ht, vat := billing.SplitTTC(ttc, matter.VATRate)

		expenseID := expense.ExpenseID
		lines = append(lines, domain.InvoiceLine{
			LineID:    uuid.NewString(),
			InvoiceID: invoiceID,
			Label:     fmt.Sprintf("Expense - %s", expense.Nature),
			VATRate:   matter.VATRate,
			HTCents:   ht,
			VATCents:  vat,
			TTCCents:  ttc,
			ExpenseID: &expenseID,
		})
	}
	return lines, nil
}

// rescaleLines forces the overall HT to a caller-specified figure: each
// line's HT is scaled by custom/calculated with the residual cents applied to
// the last line, then VAT/TTC are recomputed per line from the new HT so the
// per-line VAT rate is preserved.
func rescaleLines(lines []domain.InvoiceLine, customHT int64) {
	var calculated int64
	for _, line := range lines {
		calculated += line.HTCents
	}
	if calculated == 0 || len(lines) == 0 {
		return
	}

	var allocated int64
	for i := range lines {
		newHT := billing.ApplyRatio(lines[i].HTCents, customHT, calculated)
		if i == len(lines)-1 {
			newHT = customHT - allocated
		}
		allocated += newHT
		lines[i].HTCents = newHT
		lines[i].VATCents, lines[i].TTCCents = billing.VATFromHT(newHT, lines[i].VATRate)
	}
}

// sumLines recomputes invoice totals as the exact sum of line amounts.
func sumLines(lines []domain.InvoiceLine) (ht, vat, ttc int64) {
	for _, line := range lines {
		ht += line.HTCents
		vat += line.VATCents
		ttc += line.TTCCents
	}
	return ht, vat, ttc
}

// IssueInvoice allocates the next invoice number, stamps the issue date and
// locks every consumed record, all in one repository transaction. Numbering
// is the first side effect: if it fails, nothing is locked. Implements
// portssvc.InvoiceSvcFacade.
func (s *invoiceService) IssueInvoice(ctx context.Context, invoiceID string, issuerID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrNotDraft, invoiceID, invoice.Status)
	}
	if len(invoice.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice %s has no lines", apperrors.ErrValidation, invoiceID)
	}

	entryIDs, expenseIDs, hasUntracked := invoice.ConsumedRecords()

	var fallback *portsrepo.IssuanceFallback
	if hasUntracked {
		// Legacy lines without back-references fall back to locking every
		// still-unlocked billable entry of the matter inside the period.
		// This is a tolerated heuristic, not a precise invariant.
		fallback = &portsrepo.IssuanceFallback{
			MatterID:   invoice.MatterID,
			PeriodFrom: invoice.PeriodFrom,
			PeriodTo:   invoice.PeriodTo,
		}
		s.LogInfo(ctx, "Invoice has untracked lines, applying period lock fallback",
			slog.String("invoice_id", invoiceID))
	}

	issueDate := s.now()
	number, err := s.invoiceRepo.IssueInvoice(ctx, invoiceID, issueDate, entryIDs, expenseIDs, fallback, issuerID)
	if err != nil {
		s.LogError(ctx, err, "Invoice issuance failed, transaction rolled back",
			slog.String("invoice_id", invoiceID))
		return nil, err
	}

	invoice.Status = domain.InvoiceIssued
	invoice.Number = &number
	invoice.IssueDate = &issueDate
	invoice.LastUpdatedAt = issueDate
	invoice.LastUpdatedBy = issuerID

	s.LogInfo(ctx, "Invoice issued",
		slog.String("invoice_id", invoiceID),
		slog.String("number", number),
		slog.Int("locked_entries", len(entryIDs)),
		slog.Int("locked_expenses", len(expenseIDs)))
	return invoice, nil
}

// VoidInvoice cancels an issued invoice before any credit note exists and
// releases the locks it placed. Implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) VoidInvoice(ctx context.Context, invoiceID string, updaterID string) error {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceIssued {
		return fmt.Errorf("%w: invoice %s is %s", ErrNotIssued, invoiceID, invoice.Status)
	}

	notes, err := s.creditNoteRepo.ListCreditNotesByInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to check credit notes: %w", err)
	}
	if len(notes) > 0 {
		return fmt.Errorf("%w: invoice %s", ErrHasCreditNotes, invoiceID)
	}

	entryIDs, expenseIDs, hasUntracked := invoice.ConsumedRecords()
	var fallback *portsrepo.IssuanceFallback
	if hasUntracked {
		fallback = &portsrepo.IssuanceFallback{
			MatterID:   invoice.MatterID,
			PeriodFrom: invoice.PeriodFrom,
			PeriodTo:   invoice.PeriodTo,
		}
	}

	if err := s.invoiceRepo.VoidInvoice(ctx, invoiceID, entryIDs, expenseIDs, fallback, updaterID); err != nil {
		s.LogError(ctx, err, "Failed to void invoice", slog.String("invoice_id", invoiceID))
		return err
	}

	s.LogInfo(ctx, "Invoice voided, consumed records unlocked",
		slog.String("invoice_id", invoiceID),
		slog.Int("unlocked_entries", len(entryIDs)),
		slog.Int("unlocked_expenses", len(expenseIDs)))
	return nil
}

// DeleteDraftInvoice removes a draft. Implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) DeleteDraftInvoice(ctx context.Context, invoiceID string) error {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceDraft {
		return fmt.Errorf("%w: invoice %s is %s", ErrNotDraft, invoiceID, invoice.Status)
	}
	return s.invoiceRepo.DeleteDraftInvoice(ctx, invoiceID)
}

// MarkInvoicePaid records or clears payment of an issued invoice. Implements
// portssvc.InvoiceSvcFacade.
func (s *invoiceService) MarkInvoicePaid(ctx context.Context, invoiceID string, req dto.MarkInvoicePaidRequest, updaterID string) error {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceIssued {
		return fmt.Errorf("%w: invoice %s is %s", ErrNotIssued, invoiceID, invoice.Status)
	}

	var paymentDate *time.Time
	if req.Paid {
		paymentDate = req.PaymentDate
		if paymentDate == nil {
			today := s.now()
			paymentDate = &today
		}
	}
	return s.invoiceRepo.MarkInvoicePaid(ctx, invoiceID, req.Paid, paymentDate, updaterID)
}

// GetInvoice implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// ListInvoices implements portssvc.InvoiceSvcFacade.
func (s *invoiceService) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListInvoices(ctx, filter)
}

func mapKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
