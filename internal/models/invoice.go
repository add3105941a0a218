package models

import "time"

// Invoice mirrors the invoices table. Lines live in invoice_lines.
type Invoice struct {
	InvoiceID   string     `db:"invoice_id"`
	MatterID    string     `db:"matter_id"`
	Status      string     `db:"status"`
	PeriodFrom  time.Time  `db:"period_from"`
	PeriodTo    time.Time  `db:"period_to"`
	IssueDate   *time.Time `db:"issue_date"`
	Number      *string    `db:"number"`
	TotalHT     int64      `db:"total_ht_cents"`
	TotalVAT    int64      `db:"total_vat_cents"`
	TotalTTC    int64      `db:"total_ttc_cents"`
	Paid        bool       `db:"paid"`
	PaymentDate *time.Time `db:"payment_date"`
	AuditFields
}

// InvoiceLine mirrors the invoice_lines table. EntryIDs maps to a text[]
// column.
type InvoiceLine struct {
	LineID    string   `db:"line_id"`
	InvoiceID string   `db:"invoice_id"`
	Position  int      `db:"position"`
	Label     string   `db:"label"`
	Minutes   int64    `db:"minutes"`
	RateCents int64    `db:"rate_cents"`
	VATRate   int64    `db:"vat_rate"`
	HTCents   int64    `db:"ht_cents"`
	VATCents  int64    `db:"vat_cents"`
	TTCCents  int64    `db:"ttc_cents"`
	EntryIDs  []string `db:"entry_ids"`
	ExpenseID *string  `db:"expense_id"`
}

// CreditNote mirrors the credit_notes table.
type CreditNote struct {
	CreditNoteID string    `db:"credit_note_id"`
	InvoiceID    string    `db:"invoice_id"`
	Number       string    `db:"number"`
	IssueDate    time.Time `db:"issue_date"`
	Reason       string    `db:"reason"`
	HTCents      int64     `db:"ht_cents"`
	VATCents     int64     `db:"vat_cents"`
	TTCCents     int64     `db:"ttc_cents"`
	AuditFields
}

// CabinetSettings mirrors the single-row cabinet_settings table.
type CabinetSettings struct {
	SettingsID       string `db:"settings_id"`
	CabinetName      string `db:"cabinet_name"`
	Address          string `db:"address"`
	SIRET            string `db:"siret"`
	DefaultRateCents int64  `db:"default_rate_cents"`
	DefaultVATRate   int64  `db:"default_vat_rate"`
	InvoiceSeqYear   int    `db:"invoice_seq_year"`
	InvoiceSeqNext   int    `db:"invoice_seq_next"`
	CreditSeqYear    int    `db:"credit_seq_year"`
	CreditSeqNext    int    `db:"credit_seq_next"`
	AuditFields
}
