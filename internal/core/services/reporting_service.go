package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils/billing"
)

var ErrNoDimension = errors.New("at least one grouping dimension is required")

// reportingService implements the read-only aggregation engine. It fetches
// the relevant record sets through the repositories and cross-tabulates fully
// in memory; it never writes anything.
type reportingService struct {
	BaseService
	timesheetRepo portsrepo.TimesheetReader
	invoiceRepo   portsrepo.InvoiceReader
	matterRepo    portsrepo.MatterRepositoryFacade
	clientRepo    portsrepo.ClientRepositoryFacade
	profileRepo   portsrepo.ProfileRepositoryFacade
	settingsRepo  portsrepo.SettingsRepositoryFacade
}

// NewReportingService creates the aggregation engine.
func NewReportingService(
	timesheetRepo portsrepo.TimesheetReader,
	invoiceRepo portsrepo.InvoiceReader,
	matterRepo portsrepo.MatterRepositoryFacade,
	clientRepo portsrepo.ClientRepositoryFacade,
	profileRepo portsrepo.ProfileRepositoryFacade,
	settingsRepo portsrepo.SettingsRepositoryFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		timesheetRepo: timesheetRepo,
		invoiceRepo:   invoiceRepo,
		matterRepo:    matterRepo,
		clientRepo:    clientRepo,
		profileRepo:   profileRepo,
		settingsRepo:  settingsRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// displayData carries the lookup maps used to decorate report rows with
// human-readable names.
type displayData struct {
	matters  map[string]domain.Matter
	clients  map[string]domain.Client
	profiles map[string]domain.Profile
}

func (s *reportingService) loadDisplayData(ctx context.Context) (*displayData, error) {
	matters, err := s.matterRepo.ListMatters(ctx, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list matters: %w", err)
	}
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	profiles, err := s.profileRepo.ListProfiles(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	data := &displayData{
		matters:  make(map[string]domain.Matter, len(matters)),
		clients:  make(map[string]domain.Client, len(clients)),
		profiles: make(map[string]domain.Profile, len(profiles)),
	}
	for _, m := range matters {
		data.matters[m.MatterID] = m
	}
	for _, c := range clients {
		data.clients[c.ClientID] = c
	}
	for _, p := range profiles {
		data.profiles[p.ProfileID] = p
	}
	return data, nil
}

// keyFor projects a (collaborator, client, matter) triple onto the selected
// dimensions; unselected axes stay empty so rows collapse together.
func keyFor(dims domain.ReportDimensions, collaboratorID, clientID, matterID string) domain.GroupKey {
	key := domain.GroupKey{}
	if dims.ByCollaborator {
		key.CollaboratorID = collaboratorID
	}
	if dims.ByClient {
		key.ClientID = clientID
	}
	if dims.ByMatter {
		key.MatterID = matterID
	}
	return key
}

func (d *displayData) decorate(key domain.GroupKey) (collaboratorName, clientName, matterLabel string) {
	if key.CollaboratorID != "" {
		collaboratorName = d.profiles[key.CollaboratorID].Name
	}
	if key.ClientID != "" {
		clientName = d.clients[key.ClientID].Name
	}
	if key.MatterID != "" {
		matterLabel = d.matters[key.MatterID].Label
	}
	return
}

// WIPAging buckets every billable, unlocked timesheet entry by age and groups
// the minutes along the selected dimensions. Implements
// portssvc.ReportingSvcFacade.
func (s *reportingService) WIPAging(ctx context.Context, dims domain.ReportDimensions, asOf time.Time) ([]domain.WIPAgingRow, error) {
	if !dims.Any() {
		return nil, ErrNoDimension
	}

	entries, err := s.timesheetRepo.ListEntries(ctx, portsrepo.TimesheetFilter{
		OnlyBillable: true,
		OnlyUnlocked: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list WIP entries: %w", err)
	}

	display, err := s.loadDisplayData(ctx)
	if err != nil {
		return nil, err
	}

	rows := make(map[domain.GroupKey]*domain.WIPAgingRow)
	for _, entry := range entries {
		matter := display.matters[entry.MatterID]
		key := keyFor(dims, entry.CollaboratorID, matter.ClientID, entry.MatterID)

		row, found := rows[key]
		if !found {
			row = &domain.WIPAgingRow{Key: key}
			row.CollaboratorName, row.ClientName, row.MatterLabel = display.decorate(key)
			rows[key] = row
		}

		bucket := domain.WIPBucketIndex(domain.DaysSince(asOf, entry.EntryDate))
		row.BucketMinutes[bucket] += entry.Minutes
		row.TotalMinutes += entry.Minutes
	}

	return sortedWIPRows(rows), nil
}

func sortedWIPRows(rows map[domain.GroupKey]*domain.WIPAgingRow) []domain.WIPAgingRow {
	out := make([]domain.WIPAgingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CollaboratorName != b.CollaboratorName {
			return a.CollaboratorName < b.CollaboratorName
		}
		if a.ClientName != b.ClientName {
			return a.ClientName < b.ClientName
		}
		return a.MatterLabel < b.MatterLabel
	})
	return out
}

// UnpaidInvoiceAging buckets issued unpaid invoices by days since their issue
// date, keyed per invoice. Implements portssvc.ReportingSvcFacade.
func (s *reportingService) UnpaidInvoiceAging(ctx context.Context, asOf time.Time) (*domain.InvoiceAgingReport, error) {
	issued := domain.InvoiceIssued
	invoices, err := s.invoiceRepo.ListInvoices(ctx, portsrepo.InvoiceFilter{
		Status:     &issued,
		UnpaidOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid invoices: %w", err)
	}

	display, err := s.loadDisplayData(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.InvoiceAgingReport{}
	for _, invoice := range invoices {
		if invoice.IssueDate == nil || invoice.Number == nil {
			// An issued invoice always carries both; skip rather than crash
			// on inconsistent data.
			continue
		}
		matter := display.matters[invoice.MatterID]
		client := display.clients[matter.ClientID]

		days := domain.DaysSince(asOf, *invoice.IssueDate)
		bucket := domain.InvoiceBucketIndex(days)
		report.Rows = append(report.Rows, domain.InvoiceAgingRow{
			InvoiceID:       invoice.InvoiceID,
			Number:          *invoice.Number,
			MatterID:        invoice.MatterID,
			MatterLabel:     matter.Label,
			ClientID:        matter.ClientID,
			ClientName:      client.Name,
			IssueDate:       *invoice.IssueDate,
			DaysOutstanding: days,
			Bucket:          bucket,
			TTCCents:        invoice.TotalTTC,
		})
		report.BucketTotals[bucket] += invoice.TotalTTC
		report.TotalTTC += invoice.TotalTTC
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].DaysOutstanding > report.Rows[j].DaysOutstanding
	})
	return report, nil
}

// RevenueKPI cross-tabulates billable, invoiced and collected revenue over a
// date range. Billable revenue prices each billable entry at its resolved
// rate; invoiced revenue sums issued invoices by issue date; collected
// revenue sums paid invoices by payment date. Invoice amounts attribute to
// the row sharing the invoice's matter id when matter is a grouping
// dimension, else its client id; under collaborator grouping this is a
// best-effort attribution (the KPI engine does not consult line-level entry
// ids). Implements portssvc.ReportingSvcFacade.
func (s *reportingService) RevenueKPI(ctx context.Context, dims domain.ReportDimensions, from, to time.Time) ([]domain.KPIRow, error) {
	if !dims.Any() {
		return nil, ErrNoDimension
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cabinet settings: %w", err)
	}

	entries, err := s.timesheetRepo.ListEntries(ctx, portsrepo.TimesheetFilter{
		From:         &from,
		To:           &to,
		OnlyBillable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	issued := domain.InvoiceIssued
	invoices, err := s.invoiceRepo.ListInvoices(ctx, portsrepo.InvoiceFilter{
		Status:     &issued,
		IssuedFrom: &from,
		IssuedTo:   &to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	display, err := s.loadDisplayData(ctx)
	if err != nil {
		return nil, err
	}

	rows := make(map[domain.GroupKey]*domain.KPIRow)
	rowFor := func(key domain.GroupKey) *domain.KPIRow {
		row, found := rows[key]
		if !found {
			row = &domain.KPIRow{Key: key}
			row.CollaboratorName, row.ClientName, row.MatterLabel = display.decorate(key)
			rows[key] = row
		}
		return row
	}

	// Billable revenue: recorded time priced at the resolved hourly rate.
	for _, entry := range entries {
		matter, found := display.matters[entry.MatterID]
		if !found {
			continue
		}
		var profile *domain.Profile
		if p, ok := display.profiles[entry.CollaboratorID]; ok {
			profile = &p
		}
		rate := ResolveHourlyRate(nil, profile, matter, *settings)

		row := rowFor(keyFor(dims, entry.CollaboratorID, matter.ClientID, entry.MatterID))
		row.BillableMinutes += entry.Minutes
		row.BillableHTCents += billing.AmountForTime(entry.Minutes, rate)
	}

	// Invoiced and collected revenue. An invoice has no collaborator of its
	// own, so attribution matches rows on the matter id when matter is a
	// grouping dimension, else on the client id; every matching row receives
	// the full figure. With collaborator grouping this over-counts matters
	// billed by several collaborators; that is a known approximation of
	// the crosstab.
	for _, invoice := range invoices {
		matter, found := display.matters[invoice.MatterID]
		if !found {
			continue
		}

		targets := make([]*domain.KPIRow, 0, 1)
		switch {
		case dims.ByMatter:
			for key, row := range rows {
				if key.MatterID == invoice.MatterID {
					targets = append(targets, row)
				}
			}
		case dims.ByClient:
			for key, row := range rows {
				if key.ClientID == matter.ClientID {
					targets = append(targets, row)
				}
			}
		}
		if len(targets) == 0 {
			// No billable-entry row to piggyback on (or collaborator-only
			// grouping): the figure lands on its own key so it still shows
			// up in the report.
			targets = append(targets, rowFor(keyFor(dims, "", matter.ClientID, invoice.MatterID)))
		}

		collected := invoice.Paid && invoice.PaymentDate != nil &&
			!invoice.PaymentDate.Before(from) && !invoice.PaymentDate.After(to)
		for _, row := range targets {
			row.InvoicedHTCents += invoice.TotalHT
			if collected {
				row.CollectedHTCents += invoice.TotalHT
			}
		}
	}

	out := make([]domain.KPIRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CollaboratorName != b.CollaboratorName {
			return a.CollaboratorName < b.CollaboratorName
		}
		if a.ClientName != b.ClientName {
			return a.ClientName < b.ClientName
		}
		return a.MatterLabel < b.MatterLabel
	})
	return out, nil
}
