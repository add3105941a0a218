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
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockTimesheetRepo *MockTimesheetRepository
	mockInvoiceRepo   *MockInvoiceRepository
	mockMatterRepo    *MockMatterRepository
	mockClientRepo    *MockClientRepository
	mockProfileRepo   *MockProfileRepository
	mockSettingsRepo  *MockSettingsRepository
	service           portssvc.ReportingSvcFacade

	asOf   time.Time
	client domain.Client
	matter domain.Matter
	lawyer domain.Profile
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockTimesheetRepo = new(MockTimesheetRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockMatterRepo = new(MockMatterRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockProfileRepo = new(MockProfileRepository)
	suite.mockSettingsRepo = new(MockSettingsRepository)
	suite.service = services.NewReportingService(
		suite.mockTimesheetRepo,
		suite.mockInvoiceRepo,
		suite.mockMatterRepo,
		suite.mockClientRepo,
		suite.mockProfileRepo,
		suite.mockSettingsRepo,
	)

	suite.asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.client = domain.Client{ClientID: uuid.NewString(), Name: "Acme"}
	suite.matter = domain.Matter{
		MatterID:    uuid.NewString(),
		ClientID:    suite.client.ClientID,
		Label:       "Contract dispute",
		BillingType: domain.TimeBased,
		VATRate:     20,
	}
	suite.lawyer = domain.Profile{ProfileID: uuid.NewString(), Name: "Alice", IsActive: true}
}

func (suite *ReportingServiceTestSuite) expectDisplayData() {
	suite.mockMatterRepo.On("ListMatters", mock.Anything, (*string)(nil), true).
		Return([]domain.Matter{suite.matter}, nil).Once()
	suite.mockClientRepo.On("ListClients", mock.Anything).
		Return([]domain.Client{suite.client}, nil).Once()
	suite.mockProfileRepo.On("ListProfiles", mock.Anything, true).
		Return([]domain.Profile{suite.lawyer}, nil).Once()
}

func (suite *ReportingServiceTestSuite) entryAgedDays(days int, minutes int64) domain.TimesheetEntry {
	return domain.TimesheetEntry{
		EntryID:        uuid.NewString(),
		CollaboratorID: suite.lawyer.ProfileID,
		MatterID:       suite.matter.MatterID,
		EntryDate:      suite.asOf.AddDate(0, 0, -days),
		Minutes:        minutes,
		IsBillable:     true,
	}
}

func (suite *ReportingServiceTestSuite) TestWIPAging_RequiresDimension() {
	_, err := suite.service.WIPAging(context.Background(), domain.ReportDimensions{}, suite.asOf)
	suite.Require().ErrorIs(err, services.ErrNoDimension)
}

func (suite *ReportingServiceTestSuite) TestWIPAging_BucketsByAge() {
	ctx := context.Background()
	entries := []domain.TimesheetEntry{
		suite.entryAgedDays(5, 60),    // bucket 0
		suite.entryAgedDays(29, 30),   // bucket 0
		suite.entryAgedDays(30, 45),   // bucket 1, boundary day
		suite.entryAgedDays(75, 90),   // bucket 2
		suite.entryAgedDays(100, 15),  // bucket 3
		suite.entryAgedDays(400, 120), // bucket 4
	}

	suite.mockTimesheetRepo.On("ListEntries", ctx, portsrepo.TimesheetFilter{
		OnlyBillable: true,
		OnlyUnlocked: true,
	}).Return(entries, nil).Once()
	suite.expectDisplayData()

	rows, err := suite.service.WIPAging(ctx, domain.ReportDimensions{ByMatter: true}, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	row := rows[0]
	suite.Equal(suite.matter.MatterID, row.Key.MatterID)
	suite.Equal("Contract dispute", row.MatterLabel)
	suite.Equal([domain.WIPBucketCount]int64{90, 45, 90, 15, 120}, row.BucketMinutes)
	suite.Equal(int64(360), row.TotalMinutes)
}

func (suite *ReportingServiceTestSuite) TestWIPAging_GroupsByCollaboratorAndClient() {
	ctx := context.Background()
	other := domain.Profile{ProfileID: uuid.NewString(), Name: "Bob", IsActive: true}
	entries := []domain.TimesheetEntry{
		suite.entryAgedDays(10, 60),
		{
			EntryID:        uuid.NewString(),
			CollaboratorID: other.ProfileID,
			MatterID:       suite.matter.MatterID,
			EntryDate:      suite.asOf.AddDate(0, 0, -10),
			Minutes:        30,
			IsBillable:     true,
		},
	}

	suite.mockTimesheetRepo.On("ListEntries", ctx, mock.Anything).Return(entries, nil).Once()
	suite.mockMatterRepo.On("ListMatters", mock.Anything, (*string)(nil), true).
		Return([]domain.Matter{suite.matter}, nil).Once()
	suite.mockClientRepo.On("ListClients", mock.Anything).
		Return([]domain.Client{suite.client}, nil).Once()
	suite.mockProfileRepo.On("ListProfiles", mock.Anything, true).
		Return([]domain.Profile{suite.lawyer, other}, nil).Once()

	rows, err := suite.service.WIPAging(ctx, domain.ReportDimensions{ByCollaborator: true, ByClient: true}, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	// Sorted by collaborator name.
	suite.Equal("Alice", rows[0].CollaboratorName)
	suite.Equal(int64(60), rows[0].TotalMinutes)
	suite.Equal("Bob", rows[1].CollaboratorName)
	suite.Equal(int64(30), rows[1].TotalMinutes)
	suite.Equal("Acme", rows[0].ClientName)
	suite.Empty(rows[0].Key.MatterID)
}

func (suite *ReportingServiceTestSuite) TestUnpaidInvoiceAging() {
	ctx := context.Background()
	numberOld, numberNew := "2025-0001", "2025-0002"
	oldIssue := suite.asOf.AddDate(0, 0, -95)
	newIssue := suite.asOf.AddDate(0, 0, -10)
	invoices := []domain.Invoice{
		{
			InvoiceID: uuid.NewString(), MatterID: suite.matter.MatterID,
			Status: domain.InvoiceIssued, Number: &numberNew, IssueDate: &newIssue,
			TotalTTC: 60000,
		},
		{
			InvoiceID: uuid.NewString(), MatterID: suite.matter.MatterID,
			Status: domain.InvoiceIssued, Number: &numberOld, IssueDate: &oldIssue,
			TotalTTC: 120000,
		},
	}

	issued := domain.InvoiceIssued
	suite.mockInvoiceRepo.On("ListInvoices", ctx, portsrepo.InvoiceFilter{
		Status:     &issued,
		UnpaidOnly: true,
	}).Return(invoices, nil).Once()
	suite.expectDisplayData()

	report, err := suite.service.UnpaidInvoiceAging(ctx, suite.asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	// Oldest first.
	suite.Equal(numberOld, report.Rows[0].Number)
	suite.Equal(95, report.Rows[0].DaysOutstanding)
	suite.Equal(3, report.Rows[0].Bucket)
	suite.Equal(numberNew, report.Rows[1].Number)
	suite.Equal(0, report.Rows[1].Bucket)
	suite.Equal("Acme", report.Rows[0].ClientName)
	suite.Equal([domain.InvoiceBucketCount]int64{60000, 0, 0, 120000}, report.BucketTotals)
	suite.Equal(int64(180000), report.TotalTTC)
}

func (suite *ReportingServiceTestSuite) TestRevenueKPI_CrossTab() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	entries := []domain.TimesheetEntry{
		{
			EntryID:        uuid.NewString(),
			CollaboratorID: suite.lawyer.ProfileID,
			MatterID:       suite.matter.MatterID,
			EntryDate:      from.AddDate(0, 1, 0),
			Minutes:        120,
			IsBillable:     true,
		},
	}

	number := "2025-0005"
	issueDate := from.AddDate(0, 1, 15)
	paymentInRange := from.AddDate(0, 2, 0)
	numberLate := "2025-0006"
	paymentOutOfRange := to.AddDate(0, 1, 0)
	invoices := []domain.Invoice{
		{
			InvoiceID: uuid.NewString(), MatterID: suite.matter.MatterID,
			Status: domain.InvoiceIssued, Number: &number, IssueDate: &issueDate,
			TotalHT: 50000, TotalTTC: 60000,
			Paid: true, PaymentDate: &paymentInRange,
		},
		{
			InvoiceID: uuid.NewString(), MatterID: suite.matter.MatterID,
			Status: domain.InvoiceIssued, Number: &numberLate, IssueDate: &issueDate,
			TotalHT: 20000, TotalTTC: 24000,
			Paid: true, PaymentDate: &paymentOutOfRange,
		},
	}

	suite.mockSettingsRepo.On("GetSettings", ctx).Return(&domain.CabinetSettings{
		DefaultRateCents: 15000,
		DefaultVATRate:   20,
	}, nil).Once()
	suite.mockTimesheetRepo.On("ListEntries", ctx, portsrepo.TimesheetFilter{
		From:         &from,
		To:           &to,
		OnlyBillable: true,
	}).Return(entries, nil).Once()
	issued := domain.InvoiceIssued
	suite.mockInvoiceRepo.On("ListInvoices", ctx, portsrepo.InvoiceFilter{
		Status:     &issued,
		IssuedFrom: &from,
		IssuedTo:   &to,
	}).Return(invoices, nil).Once()
	suite.expectDisplayData()

	rows, err := suite.service.RevenueKPI(ctx, domain.ReportDimensions{ByClient: true}, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	row := rows[0]
	suite.Equal(suite.client.ClientID, row.Key.ClientID)
	suite.Equal(int64(120), row.BillableMinutes)
	// 2h at the cabinet default of 15000/h.
	suite.Equal(int64(30000), row.BillableHTCents)
	suite.Equal(int64(70000), row.InvoicedHTCents)
	// Only the payment falling inside the range counts as collected.
	suite.Equal(int64(50000), row.CollectedHTCents)
}

func (suite *ReportingServiceTestSuite) TestRevenueKPI_RequiresDimension() {
	_, err := suite.service.RevenueKPI(context.Background(), domain.ReportDimensions{},
		suite.asOf.AddDate(0, -3, 0), suite.asOf)
	suite.Require().ErrorIs(err, services.ErrNoDimension)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
