package mapping

import (
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	"github.com/cabinetlib/practice_mgmt_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice. Lines are
// mapped separately, they live in their own table.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:   d.InvoiceID,
		MatterID:    d.MatterID,
		Status:      string(d.Status),
		PeriodFrom:  d.PeriodFrom,
		PeriodTo:    d.PeriodTo,
		IssueDate:   d.IssueDate,
		Number:      d.Number,
		TotalHT:     d.TotalHT,
		TotalVAT:    d.TotalVAT,
		TotalTTC:    d.TotalTTC,
		Paid:        d.Paid,
		PaymentDate: d.PaymentDate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice plus its line rows to a domain Invoice
func ToDomainInvoice(m models.Invoice, lines []models.InvoiceLine) domain.Invoice {
	return domain.Invoice{
		InvoiceID:   m.InvoiceID,
		MatterID:    m.MatterID,
		Status:      domain.InvoiceStatus(m.Status),
		PeriodFrom:  m.PeriodFrom,
		PeriodTo:    m.PeriodTo,
		IssueDate:   m.IssueDate,
		Number:      m.Number,
		Lines:       ToDomainInvoiceLineSlice(lines),
		TotalHT:     m.TotalHT,
		TotalVAT:    m.TotalVAT,
		TotalTTC:    m.TotalTTC,
		Paid:        m.Paid,
		PaymentDate: m.PaymentDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to a model InvoiceLine
func ToModelInvoiceLine(d domain.InvoiceLine) models.InvoiceLine {
	return models.InvoiceLine{
		LineID:    d.LineID,
		InvoiceID: d.InvoiceID,
		Position:  d.Position,
		Label:     d.Label,
		Minutes:   d.Minutes,
		RateCents: d.RateCents,
		VATRate:   d.VATRate,
		HTCents:   d.HTCents,
		VATCents:  d.VATCents,
		TTCCents:  d.TTCCents,
		EntryIDs:  d.EntryIDs,
		ExpenseID: d.ExpenseID,
	}
}

// ToDomainInvoiceLine converts a model InvoiceLine to a domain InvoiceLine
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:    m.LineID,
		InvoiceID: m.InvoiceID,
		Position:  m.Position,
		Label:     m.Label,
		Minutes:   m.Minutes,
		RateCents: m.RateCents,
		VATRate:   m.VATRate,
		HTCents:   m.HTCents,
		VATCents:  m.VATCents,
		TTCCents:  m.TTCCents,
		EntryIDs:  m.EntryIDs,
		ExpenseID: m.ExpenseID,
	}
}

// ToModelInvoiceLineSlice converts a slice of domain InvoiceLines to model InvoiceLines
func ToModelInvoiceLineSlice(ds []domain.InvoiceLine) []models.InvoiceLine {
	ms := make([]models.InvoiceLine, len(ds))
	for i, d := range ds {
		ms[i] = ToModelInvoiceLine(d)
	}
	return ms
}

// ToDomainInvoiceLineSlice converts a slice of model InvoiceLines to domain InvoiceLines
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	ds := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLine(m)
	}
	return ds
}

// ToModelCreditNote converts a domain CreditNote to a model CreditNote
func ToModelCreditNote(d domain.CreditNote) models.CreditNote {
	return models.CreditNote{
		CreditNoteID: d.CreditNoteID,
		InvoiceID:    d.InvoiceID,
		Number:       d.Number,
		IssueDate:    d.IssueDate,
		Reason:       d.Reason,
		HTCents:      d.HTCents,
		VATCents:     d.VATCents,
		TTCCents:     d.TTCCents,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditNote converts a model CreditNote to a domain CreditNote
func ToDomainCreditNote(m models.CreditNote) domain.CreditNote {
	return domain.CreditNote{
		CreditNoteID: m.CreditNoteID,
		InvoiceID:    m.InvoiceID,
		Number:       m.Number,
		IssueDate:    m.IssueDate,
		Reason:       m.Reason,
		HTCents:      m.HTCents,
		VATCents:     m.VATCents,
		TTCCents:     m.TTCCents,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCreditNoteSlice converts a slice of model CreditNotes to domain CreditNotes
func ToDomainCreditNoteSlice(ms []models.CreditNote) []domain.CreditNote {
	ds := make([]domain.CreditNote, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCreditNote(m)
	}
	return ds
}

// ToModelCabinetSettings converts domain CabinetSettings to the model shape
func ToModelCabinetSettings(d domain.CabinetSettings) models.CabinetSettings {
	return models.CabinetSettings{
		SettingsID:       d.SettingsID,
		CabinetName:      d.CabinetName,
		Address:          d.Address,
		SIRET:            d.SIRET,
		DefaultRateCents: d.DefaultRateCents,
		DefaultVATRate:   d.DefaultVATRate,
		InvoiceSeqYear:   d.InvoiceSeqYear,
		InvoiceSeqNext:   d.InvoiceSeqNext,
		CreditSeqYear:    d.CreditSeqYear,
		CreditSeqNext:    d.CreditSeqNext,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCabinetSettings converts model CabinetSettings to the domain shape
func ToDomainCabinetSettings(m models.CabinetSettings) domain.CabinetSettings {
	return domain.CabinetSettings{
		SettingsID:       m.SettingsID,
		CabinetName:      m.CabinetName,
		Address:          m.Address,
		SIRET:            m.SIRET,
		DefaultRateCents: m.DefaultRateCents,
		DefaultVATRate:   m.DefaultVATRate,
		InvoiceSeqYear:   m.InvoiceSeqYear,
		InvoiceSeqNext:   m.InvoiceSeqNext,
		CreditSeqYear:    m.CreditSeqYear,
		CreditSeqNext:    m.CreditSeqNext,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
