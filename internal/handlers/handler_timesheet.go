package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// timesheetHandler handles HTTP requests related to timesheet entries.
type timesheetHandler struct {
	timesheetService portssvc.TimesheetSvcFacade
}

func newTimesheetHandler(ts portssvc.TimesheetSvcFacade) *timesheetHandler {
	return &timesheetHandler{timesheetService: ts}
}

// registerTimesheetRoutes registers routes related to timesheet entries.
func registerTimesheetRoutes(rg *gin.RouterGroup, timesheetService portssvc.TimesheetSvcFacade) {
	h := newTimesheetHandler(timesheetService)

	entries := rg.Group("/timesheet-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
	}
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalQuery(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

// createEntry godoc
// @Summary Record a timesheet entry
// @Description Minutes are rounded up to the next quarter-hour on write
// @Tags timesheets
// @Accept json
// @Produce json
// @Param entry body dto.CreateTimesheetEntryRequest true "Entry details"
// @Success 201 {object} domain.TimesheetEntry
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /timesheet-entries [post]
func (h *timesheetHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.timesheetService.CreateEntry(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Matter or collaborator not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create timesheet entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timesheet entry"})
		}
		return
	}

	logger.Info("Timesheet entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, entry)
}

// getEntry godoc
// @Summary Get a timesheet entry by ID
// @Tags timesheets
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} domain.TimesheetEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /timesheet-entries/{id} [get]
func (h *timesheetHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.timesheetService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timesheet entry not found"})
			return
		}
		logger.Error("Failed to get timesheet entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve timesheet entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// listEntries godoc
// @Summary List timesheet entries
// @Tags timesheets
// @Produce json
// @Param matterID query string false "Filter by matter"
// @Param collaboratorID query string false "Filter by collaborator"
// @Param clientID query string false "Filter by client"
// @Param from query string false "Entry date lower bound (YYYY-MM-DD)"
// @Param to query string false "Entry date upper bound (YYYY-MM-DD)"
// @Param onlyBillable query bool false "Billable entries only"
// @Param onlyUnlocked query bool false "Unlocked entries only"
// @Success 200 {array} domain.TimesheetEntry
// @Security BearerAuth
// @Router /timesheet-entries [get]
func (h *timesheetHandler) listEntries(c *gin.Context) {
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

	filter := portsrepo.TimesheetFilter{
		MatterID:       optionalQuery(c, "matterID"),
		CollaboratorID: optionalQuery(c, "collaboratorID"),
		ClientID:       optionalQuery(c, "clientID"),
		From:           from,
		To:             to,
		OnlyBillable:   c.Query("onlyBillable") == "true",
		OnlyUnlocked:   c.Query("onlyUnlocked") == "true",
	}

	entries, err := h.timesheetService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list timesheet entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list timesheet entries"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// updateEntry godoc
// @Summary Update an unlocked timesheet entry
// @Tags timesheets
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param entry body dto.UpdateTimesheetEntryRequest true "Fields to update"
// @Success 200 {object} domain.TimesheetEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 423 {object} map[string]string "Entry locked by an issued invoice"
// @Security BearerAuth
// @Router /timesheet-entries/{id} [put]
func (h *timesheetHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.UpdateTimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.timesheetService.UpdateEntry(c.Request.Context(), entryID, req, updaterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Timesheet entry not found"})
		case errors.Is(err, apperrors.ErrLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "Entry is locked by an issued invoice"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update timesheet entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update timesheet entry"})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete an unlocked timesheet entry
// @Tags timesheets
// @Param id path string true "Entry ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 423 {object} map[string]string "Entry locked by an issued invoice"
// @Security BearerAuth
// @Router /timesheet-entries/{id} [delete]
func (h *timesheetHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	if err := h.timesheetService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Timesheet entry not found"})
		case errors.Is(err, apperrors.ErrLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "Entry is locked by an issued invoice"})
		default:
			logger.Error("Failed to delete timesheet entry", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete timesheet entry"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
