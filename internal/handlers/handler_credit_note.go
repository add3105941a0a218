package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// creditNoteHandler handles the cross-invoice credit note listing. Creation
// lives under /invoices/:id/credit-notes, a credit note never exists without
// its invoice.
type creditNoteHandler struct {
	creditNoteService portssvc.CreditNoteSvcFacade
}

func newCreditNoteHandler(cns portssvc.CreditNoteSvcFacade) *creditNoteHandler {
	return &creditNoteHandler{creditNoteService: cns}
}

// registerCreditNoteRoutes registers routes related to credit notes.
func registerCreditNoteRoutes(rg *gin.RouterGroup, creditNoteService portssvc.CreditNoteSvcFacade) {
	h := newCreditNoteHandler(creditNoteService)

	notes := rg.Group("/credit-notes")
	{
		notes.GET("", h.listCreditNotes)
		notes.GET("/:id", h.getCreditNote)
	}
}

// listCreditNotes godoc
// @Summary List credit notes across invoices
// @Tags credit-notes
// @Produce json
// @Param from query string false "Issue date lower bound (YYYY-MM-DD)"
// @Param to query string false "Issue date upper bound (YYYY-MM-DD)"
// @Success 200 {array} domain.CreditNote
// @Security BearerAuth
// @Router /credit-notes [get]
func (h *creditNoteHandler) listCreditNotes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := parseDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected YYYY-MM-DD"})
		return
	}

	notes, err := h.creditNoteService.ListCreditNotes(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to list credit notes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credit notes"})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// getCreditNote godoc
// @Summary Get a credit note by ID
// @Tags credit-notes
// @Produce json
// @Param id path string true "Credit note ID"
// @Success 200 {object} domain.CreditNote
// @Failure 404 {object} map[string]string "Credit note not found"
// @Security BearerAuth
// @Router /credit-notes/{id} [get]
func (h *creditNoteHandler) getCreditNote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditNoteID := c.Param("id")

	note, err := h.creditNoteService.GetCreditNote(c.Request.Context(), creditNoteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit note not found"})
			return
		}
		logger.Error("Failed to get credit note", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve credit note"})
		return
	}
	c.JSON(http.StatusOK, note)
}
