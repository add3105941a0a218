package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
)

type CreditNoteServiceTestSuite struct {
	suite.Suite
	mockCreditNoteRepo *MockCreditNoteRepository
	mockInvoiceRepo    *MockInvoiceRepository
	service            portssvc.CreditNoteSvcFacade

	now time.Time
}

func (suite *CreditNoteServiceTestSuite) SetupTest() {
	suite.mockCreditNoteRepo = new(MockCreditNoteRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewCreditNoteService(
		suite.mockCreditNoteRepo,
		suite.mockInvoiceRepo,
		services.WithCreditNoteClock(func() time.Time { return suite.now }),
	)
}

// issuedInvoice returns an issued invoice with HT 100000, VAT 20000, TTC 120000.
func (suite *CreditNoteServiceTestSuite) issuedInvoice() *domain.Invoice {
	number := "2025-0021"
	issueDate := suite.now.AddDate(0, -1, 0)
	return &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceIssued,
		Number:    &number,
		IssueDate: &issueDate,
		TotalHT:   100000,
		TotalVAT:  20000,
		TotalTTC:  120000,
	}
}

// expectSave asserts the amounts the service computes and echoes them back
// with an allocated number, the way the repository transaction does.
func (suite *CreditNoteServiceTestSuite) expectSave(cancelInvoice bool, ht, vat, ttc int64) {
	saved := &domain.CreditNote{
		CreditNoteID: uuid.NewString(),
		Number:       "AV-2025-0003",
		IssueDate:    suite.now,
		HTCents:      ht,
		VATCents:     vat,
		TTCCents:     ttc,
	}
	suite.mockCreditNoteRepo.On("SaveCreditNote", mock.Anything, mock.MatchedBy(func(n domain.CreditNote) bool {
		return n.HTCents == ht && n.VATCents == vat && n.TTCCents == ttc
	}), cancelInvoice).Return(saved, nil).Once()
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_Total() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{}, nil).Once()
	suite.expectSave(true, 100000, 20000, 120000)

	note, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Billing error", Total: true}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(invoice.TotalHT, note.HTCents)
	suite.Equal(invoice.TotalVAT, note.VATCents)
	suite.Equal(invoice.TotalTTC, note.TTCCents)
	suite.Equal("AV-2025-0003", note.Number)
	suite.mockCreditNoteRepo.AssertExpectations(suite.T())
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_PartialDerivesProportions() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{}, nil).Once()
	// 30000/120000 of the invoice: HT 25000, VAT 5000.
	suite.expectSave(false, 25000, 5000, 30000)

	note, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Partial gesture", AmountTTCCents: ptrInt64(30000)}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(int64(30000), note.TTCCents)
	suite.Equal(int64(25000), note.HTCents)
	suite.Equal(int64(5000), note.VATCents)
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_PartialReachingTotalCancels() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{}, nil).Once()
	suite.expectSave(true, 100000, 20000, 120000)

	note, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Full refund", AmountTTCCents: ptrInt64(120000)}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(invoice.TotalTTC, note.TTCCents)
	suite.mockCreditNoteRepo.AssertExpectations(suite.T())
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_PartialExhaustingRemainderCancels() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{{TTCCents: 30000}}, nil).Once()
	// 90000/120000 of the invoice: HT 75000, VAT 15000; with 30000 already
	// credited this exhausts the invoice, so it must cancel.
	suite.expectSave(true, 75000, 15000, 90000)

	note, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Remaining balance", AmountTTCCents: ptrInt64(90000)}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(int64(90000), note.TTCCents)
	suite.mockCreditNoteRepo.AssertExpectations(suite.T())
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_CumulativeCapEnforced() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{{TTCCents: 100000}}, nil).Once()

	_, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Too much", AmountTTCCents: ptrInt64(30000)}, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrCreditExceedsLeft)
	suite.mockCreditNoteRepo.AssertNotCalled(suite.T(), "SaveCreditNote", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_TotalAfterPartialFails() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{{TTCCents: 10000}}, nil).Once()

	_, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Cancel everything", Total: true}, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrCreditExceedsLeft)
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_AmountAboveInvoiceFails() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockCreditNoteRepo.On("ListCreditNotesByInvoice", ctx, invoice.InvoiceID).
		Return([]domain.CreditNote{}, nil).Once()

	_, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "Oops", AmountTTCCents: ptrInt64(120001)}, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrCreditAmountRange)
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_DraftInvoiceFails() {
	ctx := context.Background()
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		Status:    domain.InvoiceDraft,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.CreateCreditNote(ctx, invoice.InvoiceID,
		dto.CreateCreditNoteRequest{Reason: "No", Total: true}, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrInvoiceNotCredible)
}

func (suite *CreditNoteServiceTestSuite) TestCreateCreditNote_BlankReasonFails() {
	ctx := context.Background()

	_, err := suite.service.CreateCreditNote(ctx, uuid.NewString(),
		dto.CreateCreditNoteRequest{Reason: "   ", Total: true}, uuid.NewString())

	suite.Require().ErrorIs(err, services.ErrReasonMissing)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByID", mock.Anything, mock.Anything)
}

func TestCreditNoteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CreditNoteServiceTestSuite))
}
