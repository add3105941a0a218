// Package export flattens the reporting aggregates into tabular form and
// renders them as CSV or XLSX downloads.
package export

import (
	"fmt"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
)

// Table is a rendered report: one header row plus data rows, all stringly
// typed the way spreadsheet consumers expect.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// FormatCents renders an integer-cent amount as a decimal euro string with
// two fraction digits, e.g. 123456 -> "1234.56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatMinutes renders minutes as decimal hours, e.g. 135 -> "2.25".
func FormatMinutes(minutes int64) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d.%02d", sign, minutes/60, minutes%60*100/60)
}

var wipBucketLabels = [domain.WIPBucketCount]string{"<30d", "30-60d", "60-90d", "90-120d", ">120d"}

var invoiceBucketLabels = [domain.InvoiceBucketCount]string{"<30d", "30-60d", "60-90d", ">90d"}

// WIPAgingTable flattens WIP aging rows. Minutes are rendered as decimal
// hours, one column per aging bucket.
func WIPAgingTable(rows []domain.WIPAgingRow) Table {
	t := Table{
		Name:   "WIP Aging",
		Header: []string{"Collaborator", "Client", "Matter"},
	}
	for _, label := range wipBucketLabels {
		t.Header = append(t.Header, label)
	}
	t.Header = append(t.Header, "Total (h)")

	for _, row := range rows {
		record := []string{row.CollaboratorName, row.ClientName, row.MatterLabel}
		for _, minutes := range row.BucketMinutes {
			record = append(record, FormatMinutes(minutes))
		}
		record = append(record, FormatMinutes(row.TotalMinutes))
		t.Rows = append(t.Rows, record)
	}
	return t
}

// InvoiceAgingTable flattens the unpaid invoice aging report, one row per
// invoice plus a totals row.
func InvoiceAgingTable(report domain.InvoiceAgingReport) Table {
	t := Table{
		Name:   "Invoice Aging",
		Header: []string{"Number", "Client", "Matter", "Issue date", "Days", "Bucket", "TTC"},
	}
	for _, row := range report.Rows {
		t.Rows = append(t.Rows, []string{
			row.Number,
			row.ClientName,
			row.MatterLabel,
			row.IssueDate.Format("2006-01-02"),
			fmt.Sprintf("%d", row.DaysOutstanding),
			invoiceBucketLabels[row.Bucket],
			FormatCents(row.TTCCents),
		})
	}

	totals := []string{"Total", "", "", "", "", "", FormatCents(report.TotalTTC)}
	t.Rows = append(t.Rows, totals)
	return t
}

// KPITable flattens the revenue cross-tab.
func KPITable(rows []domain.KPIRow) Table {
	t := Table{
		Name:   "Revenue KPI",
		Header: []string{"Collaborator", "Client", "Matter", "Billable (h)", "Billable HT", "Invoiced HT", "Collected HT"},
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			row.CollaboratorName,
			row.ClientName,
			row.MatterLabel,
			FormatMinutes(row.BillableMinutes),
			FormatCents(row.BillableHTCents),
			FormatCents(row.InvoicedHTCents),
			FormatCents(row.CollectedHTCents),
		})
	}
	return t
}
