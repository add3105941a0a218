package domain

import "time"

// WIPBucketCount is the number of aging buckets for work-in-progress:
// {<30, 30-60, 60-90, 90-120, >120} days.
const WIPBucketCount = 5

// InvoiceBucketCount is the number of aging buckets for unpaid invoices:
// {<30, 30-60, 60-90, >90} days.
const InvoiceBucketCount = 4

// WIPBucketIndex classifies an age in days into the WIP bucket scale.
func WIPBucketIndex(days int) int {
	switch {
	case days < 30:
		return 0
	case days < 60:
		return 1
	case days < 90:
		return 2
	case days < 120:
		return 3
	default:
		return 4
	}
}

// InvoiceBucketIndex classifies an age in days into the invoice bucket scale.
func InvoiceBucketIndex(days int) int {
	switch {
	case days < 30:
		return 0
	case days < 60:
		return 1
	case days < 90:
		return 2
	default:
		return 3
	}
}

// DaysSince returns the whole number of days elapsed between a past date and
// today, flooring partial days.
func DaysSince(today, past time.Time) int {
	return int(today.Sub(past).Hours() / 24)
}

// ReportDimensions selects the grouping axes of an aging or KPI report. At
// least one dimension must be enabled.
type ReportDimensions struct {
	ByCollaborator bool `json:"byCollaborator"`
	ByClient       bool `json:"byClient"`
	ByMatter       bool `json:"byMatter"`
}

// Any reports whether at least one grouping dimension is selected.
func (d ReportDimensions) Any() bool {
	return d.ByCollaborator || d.ByClient || d.ByMatter
}

// GroupKey identifies one row of a grouped report. Fields for unselected
// dimensions stay empty.
type GroupKey struct {
	CollaboratorID string `json:"collaboratorID,omitempty"`
	ClientID       string `json:"clientID,omitempty"`
	MatterID       string `json:"matterID,omitempty"`
}

// WIPAgingRow aggregates unbilled billable minutes for one group, split over
// the five WIP aging buckets.
type WIPAgingRow struct {
	Key              GroupKey              `json:"key"`
	CollaboratorName string                `json:"collaboratorName,omitempty"`
	ClientName       string                `json:"clientName,omitempty"`
	MatterLabel      string                `json:"matterLabel,omitempty"`
	BucketMinutes    [WIPBucketCount]int64 `json:"bucketMinutes"`
	TotalMinutes     int64                 `json:"totalMinutes"`
}

// InvoiceAgingRow is one unpaid issued invoice placed in its aging bucket;
// Bucket is an index into the invoice bucket scale.
type InvoiceAgingRow struct {
	InvoiceID       string    `json:"invoiceID"`
	Number          string    `json:"number"`
	MatterID        string    `json:"matterID"`
	MatterLabel     string    `json:"matterLabel"`
	ClientID        string    `json:"clientID"`
	ClientName      string    `json:"clientName"`
	IssueDate       time.Time `json:"issueDate"`
	DaysOutstanding int       `json:"daysOutstanding"`
	Bucket          int       `json:"bucket"`
	TTCCents        int64     `json:"ttcCents"`
}

// InvoiceAgingReport carries the per-invoice rows plus per-bucket TTC totals.
type InvoiceAgingReport struct {
	Rows         []InvoiceAgingRow         `json:"rows"`
	BucketTotals [InvoiceBucketCount]int64 `json:"bucketTotals"`
	TotalTTC     int64                     `json:"totalTTCCents"`
}

// KPIRow is one row of the revenue cross-tab: billable revenue (recorded
// time priced at the resolved rate), invoiced revenue (issued invoices) and
// collected revenue (paid invoices), accumulated independently on the same
// group key. Invoiced/collected figures are a best-effort attribution when
// grouping by collaborator meets matters billed by several collaborators.
type KPIRow struct {
	Key              GroupKey `json:"key"`
	CollaboratorName string   `json:"collaboratorName,omitempty"`
	ClientName       string   `json:"clientName,omitempty"`
	MatterLabel      string   `json:"matterLabel,omitempty"`
	BillableMinutes  int64    `json:"billableMinutes"`
	BillableHTCents  int64    `json:"billableHTCents"`
	InvoicedHTCents  int64    `json:"invoicedHTCents"`
	CollectedHTCents int64    `json:"collectedHTCents"`
}
