package mapping

import (
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	"github.com/cabinetlib/practice_mgmt_app/internal/models"
)

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:    d.ClientID,
		Name:        d.Name,
		Email:       d.Email,
		Address:     d.Address,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:    m.ClientID,
		Name:        m.Name,
		Email:       m.Email,
		Address:     m.Address,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientSlice converts a slice of model Clients to a slice of domain Clients
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}

// ToModelProfile converts a domain Profile to a model Profile
func ToModelProfile(d domain.Profile) models.Profile {
	return models.Profile{
		ProfileID:       d.ProfileID,
		Name:            d.Name,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		HourlyRateCents: d.HourlyRateCents,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProfile converts a model Profile to a domain Profile
func ToDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		ProfileID:       m.ProfileID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		HourlyRateCents: m.HourlyRateCents,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProfileSlice converts a slice of model Profiles to a slice of domain Profiles
func ToDomainProfileSlice(ms []models.Profile) []domain.Profile {
	ds := make([]domain.Profile, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProfile(m)
	}
	return ds
}

// ToModelMatter converts a domain Matter to a model Matter
func ToModelMatter(d domain.Matter) models.Matter {
	return models.Matter{
		MatterID:        d.MatterID,
		ClientID:        d.ClientID,
		Label:           d.Label,
		BillingType:     string(d.BillingType),
		HourlyRateCents: d.HourlyRateCents,
		FlatFeeCents:    d.FlatFeeCents,
		VATRate:         d.VATRate,
		IsArchived:      d.IsArchived,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMatter converts a model Matter to a domain Matter
func ToDomainMatter(m models.Matter) domain.Matter {
	return domain.Matter{
		MatterID:        m.MatterID,
		ClientID:        m.ClientID,
		Label:           m.Label,
		BillingType:     domain.BillingType(m.BillingType),
		HourlyRateCents: m.HourlyRateCents,
		FlatFeeCents:    m.FlatFeeCents,
		VATRate:         m.VATRate,
		IsArchived:      m.IsArchived,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMatterSlice converts a slice of model Matters to a slice of domain Matters
func ToDomainMatterSlice(ms []models.Matter) []domain.Matter {
	ds := make([]domain.Matter, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMatter(m)
	}
	return ds
}

// ToModelTimesheetEntry converts a domain TimesheetEntry to a model TimesheetEntry
func ToModelTimesheetEntry(d domain.TimesheetEntry) models.TimesheetEntry {
	return models.TimesheetEntry{
		EntryID:        d.EntryID,
		CollaboratorID: d.CollaboratorID,
		MatterID:       d.MatterID,
		EntryDate:      d.EntryDate,
		Minutes:        d.Minutes,
		IsBillable:     d.IsBillable,
		Locked:         d.Locked,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTimesheetEntry converts a model TimesheetEntry to a domain TimesheetEntry
func ToDomainTimesheetEntry(m models.TimesheetEntry) domain.TimesheetEntry {
	return domain.TimesheetEntry{
		EntryID:        m.EntryID,
		CollaboratorID: m.CollaboratorID,
		MatterID:       m.MatterID,
		EntryDate:      m.EntryDate,
		Minutes:        m.Minutes,
		IsBillable:     m.IsBillable,
		Locked:         m.Locked,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTimesheetEntrySlice converts a slice of model TimesheetEntries to a slice of domain TimesheetEntries
func ToDomainTimesheetEntrySlice(ms []models.TimesheetEntry) []domain.TimesheetEntry {
	ds := make([]domain.TimesheetEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTimesheetEntry(m)
	}
	return ds
}

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:      d.ExpenseID,
		CollaboratorID: d.CollaboratorID,
		ClientID:       d.ClientID,
		MatterID:       d.MatterID,
		ExpenseDate:    d.ExpenseDate,
		Nature:         d.Nature,
		AmountTTCCents: d.AmountTTCCents,
		IsBillable:     d.IsBillable,
		Locked:         d.Locked,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:      m.ExpenseID,
		CollaboratorID: m.CollaboratorID,
		ClientID:       m.ClientID,
		MatterID:       m.MatterID,
		ExpenseDate:    m.ExpenseDate,
		Nature:         m.Nature,
		AmountTTCCents: m.AmountTTCCents,
		IsBillable:     m.IsBillable,
		Locked:         m.Locked,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to a slice of domain Expenses
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
