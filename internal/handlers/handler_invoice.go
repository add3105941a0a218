package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/domain"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests for the invoice lifecycle: draft
// building, issuance, voiding, payment and the per-invoice credit notes.
type invoiceHandler struct {
	invoiceService    portssvc.InvoiceSvcFacade
	creditNoteService portssvc.CreditNoteSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, cns portssvc.CreditNoteSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, creditNoteService: cns}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, creditNoteService portssvc.CreditNoteSvcFacade) {
	h := newInvoiceHandler(invoiceService, creditNoteService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.buildDraft)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PUT("/:id", h.rebuildDraft)
		invoices.DELETE("/:id", h.deleteDraft)
		invoices.POST("/:id/issue", h.issueInvoice)
		invoices.POST("/:id/void", h.voidInvoice)
		invoices.POST("/:id/payment", h.markPaid)
		invoices.POST("/:id/credit-notes", h.createCreditNote)
		invoices.GET("/:id/credit-notes", h.listCreditNotesForInvoice)
	}
}

// mapBuildError translates draft-building failures to HTTP statuses.
func mapBuildError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Matter or selected record not found"})
	case errors.Is(err, services.ErrNoRecordsSelected),
		errors.Is(err, services.ErrFlatFeeMissing),
		errors.Is(err, services.ErrRecordNotBillable),
		errors.Is(err, services.ErrWrongMatter),
		errors.Is(err, services.ErrMatterChanged),
		errors.Is(err, services.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRecordLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotDraft):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// buildDraft godoc
// @Summary Build a draft invoice from selected records
// @Description Computes lines and totals from the matter's billing mode and the selected timesheet entries and expenses; nothing is locked yet
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.BuildInvoiceRequest true "Selection"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} map[string]string "Invalid selection"
// @Failure 409 {object} map[string]string "Selected record locked"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) buildDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BuildInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BuildDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.BuildDraftInvoice(c.Request.Context(), req, creatorID)
	if err != nil {
		mapBuildError(c, logger, err, "build draft invoice")
		return
	}

	logger.Info("Draft invoice built", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, invoice)
}

// rebuildDraft godoc
// @Summary Rebuild a draft invoice from a new selection
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.BuildInvoiceRequest true "New selection"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice is not a draft"
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *invoiceHandler) rebuildDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.BuildInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RebuildDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.RebuildDraftInvoice(c.Request.Context(), invoiceID, req, updaterID)
	if err != nil {
		mapBuildError(c, logger, err, "rebuild draft invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// getInvoice godoc
// @Summary Get an invoice with its lines
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		logger.Error("Failed to get invoice", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param matterID query string false "Filter by matter"
// @Param clientID query string false "Filter by client"
// @Param status query string false "Filter by status (draft, issued, cancelled)"
// @Param unpaidOnly query bool false "Unpaid invoices only"
// @Param issuedFrom query string false "Issue date lower bound (YYYY-MM-DD)"
// @Param issuedTo query string false "Issue date upper bound (YYYY-MM-DD)"
// @Success 200 {array} domain.Invoice
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	issuedFrom, err := parseDateQuery(c, "issuedFrom")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'issuedFrom' date, expected YYYY-MM-DD"})
		return
	}
	issuedTo, err := parseDateQuery(c, "issuedTo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'issuedTo' date, expected YYYY-MM-DD"})
		return
	}

	filter := portsrepo.InvoiceFilter{
		MatterID:   optionalQuery(c, "matterID"),
		ClientID:   optionalQuery(c, "clientID"),
		UnpaidOnly: c.Query("unpaidOnly") == "true",
		IssuedFrom: issuedFrom,
		IssuedTo:   issuedTo,
	}
	if v := c.Query("status"); v != "" {
		status := domain.InvoiceStatus(v)
		switch status {
		case domain.InvoiceDraft, domain.InvoiceIssued, domain.InvoiceCancelled:
			filter.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// issueInvoice godoc
// @Summary Issue a draft invoice
// @Description Allocates the sequential number, stamps the issue date and locks every consumed record, as one transaction
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Not a draft, or a consumed record is already locked"
// @Security BearerAuth
// @Router /invoices/{id}/issue [post]
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	issuerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), invoiceID, issuerID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrNotDraft), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is not a draft"})
		case errors.Is(err, apperrors.ErrLocked):
			c.JSON(http.StatusConflict, gin.H{"error": "A consumed record was locked by a concurrent issuance"})
		default:
			logger.Error("Failed to issue invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue invoice"})
		}
		return
	}

	logger.Info("Invoice issued", slog.String("invoice_id", invoiceID), slog.String("number", *invoice.Number))
	c.JSON(http.StatusOK, invoice)
}

// voidInvoice godoc
// @Summary Void an issued invoice
// @Description Cancels the invoice and unlocks the records it consumed; rejected once credit notes exist. The number is never reused
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204 "Voided"
// @Failure 409 {object} map[string]string "Not issued, or has credit notes"
// @Security BearerAuth
// @Router /invoices/{id}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.invoiceService.VoidInvoice(c.Request.Context(), invoiceID, updaterID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrNotIssued), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is not issued"})
		case errors.Is(err, services.ErrHasCreditNotes):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to void invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void invoice"})
		}
		return
	}

	logger.Info("Invoice voided", slog.String("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}

// deleteDraft godoc
// @Summary Delete a draft invoice
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Invoice is not a draft"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	if err := h.invoiceService.DeleteDraftInvoice(c.Request.Context(), invoiceID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrNotDraft), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is not a draft"})
		default:
			logger.Error("Failed to delete draft invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete draft invoice"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// markPaid godoc
// @Summary Record or clear payment of an issued invoice
// @Tags invoices
// @Accept json
// @Param id path string true "Invoice ID"
// @Param payment body dto.MarkInvoicePaidRequest true "Payment state"
// @Success 204 "Updated"
// @Failure 409 {object} map[string]string "Invoice is not issued"
// @Security BearerAuth
// @Router /invoices/{id}/payment [post]
func (h *invoiceHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.MarkInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), invoiceID, req, updaterID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrNotIssued), errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is not issued"})
		default:
			logger.Error("Failed to update invoice payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice payment"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// createCreditNote godoc
// @Summary Create a credit note against an issued invoice
// @Description Total reversal cancels the invoice; partial amounts are capped so cumulated credits never exceed the invoice TTC
// @Tags credit-notes
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param creditNote body dto.CreateCreditNoteRequest true "Credit note details"
// @Success 201 {object} domain.CreditNote
// @Failure 400 {object} map[string]string "Invalid amount or missing reason"
// @Failure 409 {object} map[string]string "Invoice not issued or credit exceeds remaining total"
// @Security BearerAuth
// @Router /invoices/{id}/credit-notes [post]
func (h *invoiceHandler) createCreditNote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCreditNote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	note, err := h.creditNoteService.CreateCreditNote(c.Request.Context(), invoiceID, req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, services.ErrReasonMissing), errors.Is(err, services.ErrCreditAmountRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvoiceNotCredible), errors.Is(err, services.ErrCreditExceedsLeft):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create credit note", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create credit note"})
		}
		return
	}

	logger.Info("Credit note created", slog.String("invoice_id", invoiceID), slog.String("number", note.Number))
	c.JSON(http.StatusCreated, note)
}

// listCreditNotesForInvoice godoc
// @Summary List credit notes of an invoice
// @Tags credit-notes
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} domain.CreditNote
// @Security BearerAuth
// @Router /invoices/{id}/credit-notes [get]
func (h *invoiceHandler) listCreditNotesForInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	notes, err := h.creditNoteService.ListCreditNotesByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		logger.Error("Failed to list credit notes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credit notes"})
		return
	}
	c.JSON(http.StatusOK, notes)
}
