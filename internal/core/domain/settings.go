package domain

import "fmt"

// CabinetSettings is the singleton configuration row of the cabinet. It holds
// the billing defaults and the two independent year-scoped numbering counters.
// The counters are the only shared mutable state in the engine; they must only
// ever be advanced under a row lock (see the pgsql settings repository).
type CabinetSettings struct {
	SettingsID       string `json:"settingsID"`
	CabinetName      string `json:"cabinetName"`
	Address          string `json:"address"`
	SIRET            string `json:"siret"`
	DefaultRateCents int64  `json:"defaultRateCents"`
	DefaultVATRate   int64  `json:"defaultVATRate"` // 0 or 20
	InvoiceSeqYear   int    `json:"invoiceSeqYear"`
	InvoiceSeqNext   int    `json:"invoiceSeqNext"`
	CreditSeqYear    int    `json:"creditSeqYear"`
	CreditSeqNext    int    `json:"creditSeqNext"`
	AuditFields
}

// FormatInvoiceNumber renders an allocated invoice sequence as "{year}-{seq:04d}".
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%d-%04d", year, seq)
}

// FormatCreditNoteNumber renders an allocated credit-note sequence as "AV-{year}-{seq:04d}".
func FormatCreditNoteNumber(year, seq int) string {
	return fmt.Sprintf("AV-%d-%04d", year, seq)
}

// NextSequence computes the sequence an allocation in calendar year `year`
// must use, given the stored counter state: the stored next value inside the
// same year, 1 when the year advanced. The returned nextState is what must be
// persisted (seq+1, year updated).
func NextSequence(storedYear, storedNext, year int) (seq, newNext int) {
	if storedYear != year {
		return 1, 2
	}
	return storedNext, storedNext + 1
}
