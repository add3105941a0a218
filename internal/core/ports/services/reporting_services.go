package services

import (
	"context"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// ReportingSvcFacade is the read-only aggregation engine: WIP aging, unpaid
// invoice aging and the revenue KPI cross-tab.
type ReportingSvcFacade interface {
	// WIPAging buckets unbilled billable minutes by age, grouped along the
	// selected dimensions (at least one required).
	WIPAging(ctx context.Context, dims domain.ReportDimensions, asOf time.Time) ([]domain.WIPAgingRow, error)

	// UnpaidInvoiceAging buckets issued unpaid invoices by age of their
	// issue date, keyed per invoice.
	UnpaidInvoiceAging(ctx context.Context, asOf time.Time) (*domain.InvoiceAgingReport, error)

	// RevenueKPI cross-tabulates billable, invoiced and collected revenue
	// over a date range along the selected dimensions. Invoice attribution
	// is by matter when matter is grouped, else by client; it is a
	// documented approximation under collaborator grouping.
	RevenueKPI(ctx context.Context, dims domain.ReportDimensions, from, to time.Time) ([]domain.KPIRow, error)
}

// DocumentRenderSvc is the outbound port for PDF/Word rendering of finalized
// invoices and credit notes. Rendering is an external collaborator: the
// engine only feeds it finalized documents and display data, never depends
// on its output.
type DocumentRenderSvc interface {
	RenderInvoice(ctx context.Context, invoice domain.Invoice, settings domain.CabinetSettings, client domain.Client, matter domain.Matter) ([]byte, error)

	RenderCreditNote(ctx context.Context, note domain.CreditNote, invoice domain.Invoice, settings domain.CabinetSettings, client domain.Client, matter domain.Matter) ([]byte, error)
}
