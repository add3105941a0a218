package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo    *MockInvoiceRepository
	mockCreditNoteRepo *MockCreditNoteRepository
	mockMatterRepo     *MockMatterRepository
	mockTimesheetRepo  *MockTimesheetRepository
	mockExpenseRepo    *MockExpenseRepository
	mockProfileRepo    *MockProfileRepository
	mockSettingsRepo   *MockSettingsRepository
	service            portssvc.InvoiceSvcFacade

	now time.Time
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockCreditNoteRepo = new(MockCreditNoteRepository)
	suite.mockMatterRepo = new(MockMatterRepository)
	suite.mockTimesheetRepo = new(MockTimesheetRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockProfileRepo = new(MockProfileRepository)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.now = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockCreditNoteRepo,
		suite.mockMatterRepo,
		suite.mockTimesheetRepo,
		suite.mockExpenseRepo,
		suite.mockProfileRepo,
		suite.mockSettingsRepo,
		services.WithInvoiceClock(func() time.Time { return suite.now }),
	)
}

func (suite *InvoiceServiceTestSuite) defaultSettings() *domain.CabinetSettings {
	return &domain.CabinetSettings{
		SettingsID:       uuid.NewString(),
		DefaultRateCents: 15000,
		DefaultVATRate:   20,
	}
}

func (suite *InvoiceServiceTestSuite) timeBasedMatter() *domain.Matter {
	return &domain.Matter{
		MatterID:    uuid.NewString(),
		ClientID:    uuid.NewString(),
		Label:       "Acme litigation",
		BillingType: domain.TimeBased,
		VATRate:     20,
	}
}

func (suite *InvoiceServiceTestSuite) buildRequest(matterID string) dto.BuildInvoiceRequest {
	return dto.BuildInvoiceRequest{
		MatterID:   matterID,
		PeriodFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_FlatFee() {
	ctx := context.Background()
	matter := &domain.Matter{
		MatterID:     uuid.NewString(),
		ClientID:     uuid.NewString(),
		Label:        "Estate settlement",
		BillingType:  domain.FlatFee,
		FlatFeeCents: ptrInt64(500000),
		VATRate:      20,
	}
	req := suite.buildRequest(matter.MatterID)

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(invoice.Lines, 1)
	suite.Equal(int64(500000), invoice.Lines[0].HTCents)
	suite.Equal(int64(100000), invoice.Lines[0].VATCents)
	suite.Equal(int64(600000), invoice.Lines[0].TTCCents)
	suite.Equal(int64(500000), invoice.TotalHT)
	suite.Equal(int64(100000), invoice.TotalVAT)
	suite.Equal(int64(600000), invoice.TotalTTC)
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Nil(invoice.Number)

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_FlatFeeWithoutAmountFails() {
	ctx := context.Background()
	matter := &domain.Matter{
		MatterID:    uuid.NewString(),
		BillingType: domain.FlatFee,
		VATRate:     20,
	}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()

	_, err := suite.service.BuildDraftInvoice(ctx, suite.buildRequest(matter.MatterID), uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrFlatFeeMissing)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_TimeBasedWeightedAverage() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	collaboratorID := uuid.NewString()

	entryA := domain.TimesheetEntry{
		EntryID:        uuid.NewString(),
		CollaboratorID: collaboratorID,
		MatterID:       matter.MatterID,
		Minutes:        90,
		IsBillable:     true,
	}
	entryB := domain.TimesheetEntry{
		EntryID:        uuid.NewString(),
		CollaboratorID: collaboratorID,
		MatterID:       matter.MatterID,
		Minutes:        45,
		IsBillable:     true,
	}

	req := suite.buildRequest(matter.MatterID)
	req.Entries = []dto.SelectedEntry{
		{EntryID: entryA.EntryID, RateOverride: ptrInt64(18000)},
		{EntryID: entryB.EntryID, RateOverride: ptrInt64(12000)},
	}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockTimesheetRepo.On("FindEntriesByIDs", ctx, []string{entryA.EntryID, entryB.EntryID}).
		Return(map[string]domain.TimesheetEntry{entryA.EntryID: entryA, entryB.EntryID: entryB}, nil).Once()
	suite.mockProfileRepo.On("FindProfilesByIDs", ctx, mock.Anything).
		Return(map[string]domain.Profile{}, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(invoice.Lines, 1)
	line := invoice.Lines[0]
	// (90*18000 + 45*12000) / 135 = 16000; 135 min at 16000/h = 36000
	suite.Equal(int64(135), line.Minutes)
	suite.Equal(int64(16000), line.RateCents)
	suite.Equal(int64(36000), line.HTCents)
	suite.Equal(int64(7200), line.VATCents)
	suite.Equal(int64(43200), line.TTCCents)
	suite.ElementsMatch([]string{entryA.EntryID, entryB.EntryID}, line.EntryIDs)
	suite.Equal(invoice.TotalHT, line.HTCents)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_GroupByCollaborator() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	alice := domain.Profile{ProfileID: uuid.NewString(), Name: "Alice", HourlyRateCents: ptrInt64(20000)}
	bob := domain.Profile{ProfileID: uuid.NewString(), Name: "Bob", HourlyRateCents: ptrInt64(10000)}

	entryA := domain.TimesheetEntry{
		EntryID: uuid.NewString(), CollaboratorID: alice.ProfileID,
		MatterID: matter.MatterID, Minutes: 60, IsBillable: true,
	}
	entryB := domain.TimesheetEntry{
		EntryID: uuid.NewString(), CollaboratorID: bob.ProfileID,
		MatterID: matter.MatterID, Minutes: 120, IsBillable: true,
	}

	req := suite.buildRequest(matter.MatterID)
	req.GroupByCollaborator = true
	req.Entries = []dto.SelectedEntry{{EntryID: entryB.EntryID}, {EntryID: entryA.EntryID}}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockTimesheetRepo.On("FindEntriesByIDs", ctx, mock.Anything).
		Return(map[string]domain.TimesheetEntry{entryA.EntryID: entryA, entryB.EntryID: entryB}, nil).Once()
	suite.mockProfileRepo.On("FindProfilesByIDs", ctx, mock.Anything).
		Return(map[string]domain.Profile{alice.ProfileID: alice, bob.ProfileID: bob}, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(invoice.Lines, 2)
	// Lines ordered by collaborator name.
	suite.Equal("Fees - Alice", invoice.Lines[0].Label)
	suite.Equal(int64(20000), invoice.Lines[0].HTCents)
	suite.Equal("Fees - Bob", invoice.Lines[1].Label)
	suite.Equal(int64(20000), invoice.Lines[1].HTCents)
	suite.Equal(0, invoice.Lines[0].Position)
	suite.Equal(1, invoice.Lines[1].Position)
	suite.Equal(int64(40000), invoice.TotalHT)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_ExpenseLineSplitsTTC() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		MatterID:       matter.MatterID,
		Nature:         "Court filing fee",
		AmountTTCCents: 12000,
		IsBillable:     true,
	}

	req := suite.buildRequest(matter.MatterID)
	req.Expenses = []dto.SelectedExpense{{ExpenseID: expense.ExpenseID}}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockExpenseRepo.On("FindExpensesByIDs", ctx, []string{expense.ExpenseID}).
		Return(map[string]domain.Expense{expense.ExpenseID: expense}, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(invoice.Lines, 1)
	line := invoice.Lines[0]
	suite.Equal(int64(10000), line.HTCents)
	suite.Equal(int64(2000), line.VATCents)
	suite.Equal(int64(12000), line.TTCCents)
	suite.Require().NotNil(line.ExpenseID)
	suite.Equal(expense.ExpenseID, *line.ExpenseID)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_CustomTotalRescalesLines() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	collaboratorID := uuid.NewString()

	entry := domain.TimesheetEntry{
		EntryID:        uuid.NewString(),
		CollaboratorID: collaboratorID,
		MatterID:       matter.MatterID,
		Minutes:        60,
		IsBillable:     true,
	}
	// One fee line of 10000 HT plus one expense line of 1000 HT; a custom
	// total not divisible by the calculated one forces residual allocation.
	expense := domain.Expense{
		ExpenseID: uuid.NewString(), MatterID: matter.MatterID,
		Nature: "Travel", AmountTTCCents: 1200, IsBillable: true,
	}
	req := suite.buildRequest(matter.MatterID)
	req.Entries = []dto.SelectedEntry{{EntryID: entry.EntryID, RateOverride: ptrInt64(10000)}}
	req.Expenses = []dto.SelectedExpense{{ExpenseID: expense.ExpenseID}}
	req.CustomTotalHT = ptrInt64(10000)

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockTimesheetRepo.On("FindEntriesByIDs", ctx, mock.Anything).
		Return(map[string]domain.TimesheetEntry{entry.EntryID: entry}, nil).Once()
	suite.mockProfileRepo.On("FindProfilesByIDs", ctx, mock.Anything).
		Return(map[string]domain.Profile{}, nil).Once()
	suite.mockExpenseRepo.On("FindExpensesByIDs", ctx, mock.Anything).
		Return(map[string]domain.Expense{expense.ExpenseID: expense}, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(int64(10000), invoice.TotalHT)
	var sumHT, sumVAT, sumTTC int64
	for _, line := range invoice.Lines {
		sumHT += line.HTCents
		sumVAT += line.VATCents
		sumTTC += line.TTCCents
	}
	suite.Equal(invoice.TotalHT, sumHT)
	suite.Equal(invoice.TotalVAT, sumVAT)
	suite.Equal(invoice.TotalTTC, sumTTC)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_EmptySelectionFails() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()

	_, err := suite.service.BuildDraftInvoice(ctx, suite.buildRequest(matter.MatterID), uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrNoRecordsSelected)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_InvalidPeriodFails() {
	ctx := context.Background()
	req := suite.buildRequest(uuid.NewString())
	req.PeriodFrom, req.PeriodTo = req.PeriodTo, req.PeriodFrom

	_, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrInvalidPeriod)
	suite.mockMatterRepo.AssertNotCalled(suite.T(), "FindMatterByID", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_LockedEntryFails() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	entry := domain.TimesheetEntry{
		EntryID:    uuid.NewString(),
		MatterID:   matter.MatterID,
		Minutes:    60,
		IsBillable: true,
		Locked:     true,
	}
	req := suite.buildRequest(matter.MatterID)
	req.Entries = []dto.SelectedEntry{{EntryID: entry.EntryID}}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockTimesheetRepo.On("FindEntriesByIDs", ctx, mock.Anything).
		Return(map[string]domain.TimesheetEntry{entry.EntryID: entry}, nil).Once()

	_, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrRecordLocked)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_WrongMatterFails() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	entry := domain.TimesheetEntry{
		EntryID:    uuid.NewString(),
		MatterID:   uuid.NewString(), // some other matter
		Minutes:    60,
		IsBillable: true,
	}
	req := suite.buildRequest(matter.MatterID)
	req.Entries = []dto.SelectedEntry{{EntryID: entry.EntryID}}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockTimesheetRepo.On("FindEntriesByIDs", ctx, mock.Anything).
		Return(map[string]domain.TimesheetEntry{entry.EntryID: entry}, nil).Once()

	_, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrWrongMatter)
}

func (suite *InvoiceServiceTestSuite) TestBuildDraft_NonBillableEntryFails() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	entry := domain.TimesheetEntry{
		EntryID:  uuid.NewString(),
		MatterID: matter.MatterID,
		Minutes:  60,
	}
	req := suite.buildRequest(matter.MatterID)
	req.Entries = []dto.SelectedEntry{{EntryID: entry.EntryID}}

	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockTimesheetRepo.On("FindEntriesByIDs", ctx, mock.Anything).
		Return(map[string]domain.TimesheetEntry{entry.EntryID: entry}, nil).Once()

	_, err := suite.service.BuildDraftInvoice(ctx, req, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrRecordNotBillable)
}

func (suite *InvoiceServiceTestSuite) TestRebuildDraft_KeepsMatter() {
	ctx := context.Background()
	matter := suite.timeBasedMatter()
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		MatterID:       matter.MatterID,
		Nature:         "Courier",
		AmountTTCCents: 2400,
		IsBillable:     true,
	}
	existing := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		MatterID:  matter.MatterID,
		Status:    domain.InvoiceDraft,
	}

	req := suite.buildRequest(matter.MatterID)
	req.Expenses = []dto.SelectedExpense{{ExpenseID: expense.ExpenseID}}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()
	suite.mockMatterRepo.On("FindMatterByID", ctx, matter.MatterID).Return(matter, nil).Once()
	suite.mockSettingsRepo.On("GetSettings", ctx).Return(suite.defaultSettings(), nil).Once()
	suite.mockExpenseRepo.On("FindExpensesByIDs", ctx, mock.Anything).
		Return(map[string]domain.Expense{expense.ExpenseID: expense}, nil).Once()
	suite.mockInvoiceRepo.On("ReplaceDraftLines", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.RebuildDraftInvoice(ctx, existing.InvoiceID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(existing.InvoiceID, invoice.InvoiceID)
	suite.Equal(matter.MatterID, invoice.MatterID)
	suite.Require().Len(invoice.Lines, 1)
	suite.Equal(int64(2400), invoice.TotalTTC)
}

func (suite *InvoiceServiceTestSuite) TestRebuildDraft_MatterChangeRejected() {
	ctx := context.Background()
	existing := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		MatterID:  uuid.NewString(),
		Status:    domain.InvoiceDraft,
	}

	req := suite.buildRequest(uuid.NewString()) // points at a different matter

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, existing.InvoiceID).Return(existing, nil).Once()

	_, err := suite.service.RebuildDraftInvoice(ctx, existing.InvoiceID, req, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrMatterChanged)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ReplaceDraftLines", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_LocksConsumedRecords() {
	ctx := context.Background()
	issuerID := uuid.NewString()
	expenseID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		MatterID:  uuid.NewString(),
		Status:    domain.InvoiceDraft,
		Lines: []domain.InvoiceLine{
			{LineID: uuid.NewString(), EntryIDs: []string{"e1", "e2"}},
			{LineID: uuid.NewString(), ExpenseID: &expenseID},
		},
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("IssueInvoice", ctx, invoice.InvoiceID, suite.now,
		[]string{"e1", "e2"}, []string{expenseID}, (*portsrepo.IssuanceFallback)(nil), issuerID).
		Return("2025-0042", nil).Once()

	issued, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID, issuerID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceIssued, issued.Status)
	suite.Require().NotNil(issued.Number)
	suite.Equal("2025-0042", *issued.Number)
	suite.Require().NotNil(issued.IssueDate)
	suite.Equal(suite.now, *issued.IssueDate)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_UntrackedLinesUseFallback() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID:  uuid.NewString(),
		MatterID:   uuid.NewString(),
		Status:     domain.InvoiceDraft,
		PeriodFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Lines:      []domain.InvoiceLine{{LineID: uuid.NewString()}}, // no back-references
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("IssueInvoice", ctx, invoice.InvoiceID, suite.now,
		[]string(nil), []string(nil),
		&portsrepo.IssuanceFallback{
			MatterID:   invoice.MatterID,
			PeriodFrom: invoice.PeriodFrom,
			PeriodTo:   invoice.PeriodTo,
		}, mock.AnythingOfType("string")).
		Return("2025-0001", nil).Once()

	_, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NotDraftFails() {
	ctx := context.Background()
	number := "2025-0007"
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceIssued,
		Number:    &number,
		Lines:     []domain.InvoiceLine{{LineID: uuid.NewString()}},
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrNotDraft)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "IssueInvoice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_UnlocksRecords() {
	ctx := context.Background()
	updaterID := uuid.NewString()
	number := "2025-0010"
	issueDate := suite.now.AddDate(0, 0, -3)
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceIssued,
		Number:    &number,
		IssueDate: &issueDate,
		Lines:     []domain.InvoiceLine{{LineID: uuid.NewString(), EntryIDs: []string{"e1"}}},
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{}, nil).Once()
	suite.mockInvoiceRepo.On("VoidInvoice", ctx, invoice.InvoiceID,
		[]string{"e1"}, []string(nil), (*portsrepo.IssuanceFallback)(nil), updaterID).
		Return(nil).Once()

	err := suite.service.VoidInvoice(ctx, invoice.InvoiceID, updaterID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_BlockedByCreditNotes() {
	ctx := context.Background()
	number := "2025-0011"
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceIssued,
		Number:    &number,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{{CreditNoteID: uuid.NewString()}}, nil).Once()

	err := suite.service.VoidInvoice(ctx, invoice.InvoiceID, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrHasCreditNotes)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "VoidInvoice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_DefaultsPaymentDate() {
	ctx := context.Background()
	updaterID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceIssued,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("MarkInvoicePaid", ctx, invoice.InvoiceID, true, &suite.now, updaterID).
		Return(nil).Once()

	err := suite.service.MarkInvoicePaid(ctx, invoice.InvoiceID, dto.MarkInvoicePaidRequest{Paid: true}, updaterID)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestDeleteDraftInvoice_OnlyDrafts() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceCancelled,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	err := suite.service.DeleteDraftInvoice(ctx, invoice.InvoiceID)

	suite.Require().ErrorIs(err, services.ErrNotDraft)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "DeleteDraftInvoice", mock.Anything, mock.Anything)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
