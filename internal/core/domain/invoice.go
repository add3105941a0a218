package domain

import "time"

// InvoiceStatus is the one-way lifecycle of an invoice. A draft may be
// deleted; once issued the invoice keeps its number and issue date forever,
// even if later cancelled.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// InvoiceLine is a value object embedded in an invoice. Minutes and RateCents
// are zero for flat-fee and expense lines. EntryIDs and ExpenseID
// back-reference the timesheet entries or expense the line consumes; they
// drive locking at issuance.
type InvoiceLine struct {
	LineID    string   `json:"lineID"`
	InvoiceID string   `json:"invoiceID"`
	Position  int      `json:"position"`
	Label     string   `json:"label"`
	Minutes   int64    `json:"minutes"`
	RateCents int64    `json:"rateCents"`
	VATRate   int64    `json:"vatRate"`
	HTCents   int64    `json:"htCents"`
	VATCents  int64    `json:"vatCents"`
	TTCCents  int64    `json:"ttcCents"`
	EntryIDs  []string `json:"entryIDs,omitempty"`
	ExpenseID *string  `json:"expenseID,omitempty"`
}

// Invoice totals are always the sum of the line amounts; the builder and the
// custom-total rescale both maintain that invariant. IssueDate and Number
// stay nil on drafts and are stamped once at issuance; the number is
// permanent after that.
type Invoice struct {
	InvoiceID   string        `json:"invoiceID"`
	MatterID    string        `json:"matterID"`
	Status      InvoiceStatus `json:"status"`
	PeriodFrom  time.Time     `json:"periodFrom"`
	PeriodTo    time.Time     `json:"periodTo"`
	IssueDate   *time.Time    `json:"issueDate,omitempty"`
	Number      *string       `json:"number,omitempty"`
	Lines       []InvoiceLine `json:"lines"`
	TotalHT     int64         `json:"totalHTCents"`
	TotalVAT    int64         `json:"totalVATCents"`
	TotalTTC    int64         `json:"totalTTCCents"`
	Paid        bool          `json:"paid"`
	PaymentDate *time.Time    `json:"paymentDate,omitempty"`
	AuditFields
}

// ConsumedRecords returns the timesheet-entry ids and expense ids referenced
// by the invoice's lines, and whether any line carries no back-reference at
// all (legacy data, handled by the period fallback at lock time).
func (inv Invoice) ConsumedRecords() (entryIDs []string, expenseIDs []string, hasUntracked bool) {
	seen := make(map[string]struct{})
	for _, line := range inv.Lines {
		switch {
		case len(line.EntryIDs) > 0:
			for _, id := range line.EntryIDs {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					entryIDs = append(entryIDs, id)
				}
			}
		case line.ExpenseID != nil:
			expenseIDs = append(expenseIDs, *line.ExpenseID)
		default:
			hasUntracked = true
		}
	}
	return entryIDs, expenseIDs, hasUntracked
}
