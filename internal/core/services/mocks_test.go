package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
)

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReplaceDraftLines(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteDraftInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) IssueInvoice(ctx context.Context, invoiceID string, issueDate time.Time, entryIDs, expenseIDs []string, fallback *portsrepo.IssuanceFallback, updatedBy string) (string, error) {
	args := m.Called(ctx, invoiceID, issueDate, entryIDs, expenseIDs, fallback, updatedBy)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) VoidInvoice(ctx context.Context, invoiceID string, entryIDs, expenseIDs []string, fallback *portsrepo.IssuanceFallback, updatedBy string) error {
	args := m.Called(ctx, invoiceID, entryIDs, expenseIDs, fallback, updatedBy)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, paid bool, paymentDate *time.Time, updatedBy string) error {
	args := m.Called(ctx, invoiceID, paid, paymentDate, updatedBy)
	return args.Error(0)
}

// --- Mock CreditNoteRepository ---

type MockCreditNoteRepository struct {
	mock.Mock
}

func (m *MockCreditNoteRepository) FindCreditNoteByID(ctx context.Context, creditNoteID string) (*domain.CreditNote, error) {
	args := m.Called(ctx, creditNoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) ListCreditNotesByInvoice(ctx context.Context, invoiceID string) ([]domain.CreditNote, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) ListCreditNotes(ctx context.Context, from, to *time.Time) ([]domain.CreditNote, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) SaveCreditNote(ctx context.Context, note domain.CreditNote, cancelInvoice bool) (*domain.CreditNote, error) {
	args := m.Called(ctx, note, cancelInvoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditNote), args.Error(1)
}

// --- Mock MatterRepository ---

type MockMatterRepository struct {
	mock.Mock
}

func (m *MockMatterRepository) FindMatterByID(ctx context.Context, matterID string) (*domain.Matter, error) {
	args := m.Called(ctx, matterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Matter), args.Error(1)
}

func (m *MockMatterRepository) ListMatters(ctx context.Context, clientID *string, includeArchived bool) ([]domain.Matter, error) {
	args := m.Called(ctx, clientID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Matter), args.Error(1)
}

func (m *MockMatterRepository) SaveMatter(ctx context.Context, matter domain.Matter) error {
	args := m.Called(ctx, matter)
	return args.Error(0)
}

func (m *MockMatterRepository) UpdateMatter(ctx context.Context, matter domain.Matter) error {
	args := m.Called(ctx, matter)
	return args.Error(0)
}

// --- Mock TimesheetRepository (reader side) ---

type MockTimesheetRepository struct {
	mock.Mock
}

func (m *MockTimesheetRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.TimesheetEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimesheetEntry), args.Error(1)
}

func (m *MockTimesheetRepository) FindEntriesByIDs(ctx context.Context, entryIDs []string) (map[string]domain.TimesheetEntry, error) {
	args := m.Called(ctx, entryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TimesheetEntry), args.Error(1)
}

func (m *MockTimesheetRepository) ListEntries(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.TimesheetEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimesheetEntry), args.Error(1)
}

// --- Mock ExpenseRepository (reader side) ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindExpensesByIDs(ctx context.Context, expenseIDs []string) (map[string]domain.Expense, error) {
	args := m.Called(ctx, expenseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

// --- Mock ProfileRepository ---

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindProfileByID(ctx context.Context, profileID string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindProfilesByIDs(ctx context.Context, profileIDs []string) (map[string]domain.Profile, error) {
	args := m.Called(ctx, profileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListProfiles(ctx context.Context, includeInactive bool) ([]domain.Profile, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// --- Mock ClientRepository ---

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindClientsByIDs(ctx context.Context, clientIDs []string) (map[string]domain.Client, error) {
	args := m.Called(ctx, clientIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// --- Mock SettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (*domain.CabinetSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CabinetSettings), args.Error(1)
}

func (m *MockSettingsRepository) UpdateSettings(ctx context.Context, settings domain.CabinetSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func ptrInt64(v int64) *int64 {
	return &v
}
