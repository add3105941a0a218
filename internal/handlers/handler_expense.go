package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	portsrepo "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers routes related to expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
}

// createExpense godoc
// @Summary Record an expense (TTC)
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Matter or collaborator not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		}
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, expense)
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		logger.Error("Failed to get expense", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve expense"})
		return
	}
	c.JSON(http.StatusOK, expense)
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param matterID query string false "Filter by matter"
// @Param clientID query string false "Filter by client"
// @Param collaboratorID query string false "Filter by collaborator"
// @Param from query string false "Expense date lower bound (YYYY-MM-DD)"
// @Param to query string false "Expense date upper bound (YYYY-MM-DD)"
// @Param onlyBillable query bool false "Billable expenses only"
// @Param onlyUnlocked query bool false "Unlocked expenses only"
// @Success 200 {array} domain.Expense
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
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

	filter := portsrepo.ExpenseFilter{
		MatterID:       optionalQuery(c, "matterID"),
		ClientID:       optionalQuery(c, "clientID"),
		CollaboratorID: optionalQuery(c, "collaboratorID"),
		From:           from,
		To:             to,
		OnlyBillable:   c.Query("onlyBillable") == "true",
		OnlyUnlocked:   c.Query("onlyUnlocked") == "true",
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// updateExpense godoc
// @Summary Update an unlocked expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 423 {object} map[string]string "Expense locked by an issued invoice"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), expenseID, req, updaterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		case errors.Is(err, apperrors.ErrLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "Expense is locked by an issued invoice"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		}
		return
	}
	c.JSON(http.StatusOK, expense)
}

// deleteExpense godoc
// @Summary Delete an unlocked expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 423 {object} map[string]string "Expense locked by an issued invoice"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	if err := h.expenseService.DeleteExpense(c.Request.Context(), expenseID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		case errors.Is(err, apperrors.ErrLocked):
			c.JSON(http.StatusLocked, gin.H{"error": "Expense is locked by an issued invoice"})
		default:
			logger.Error("Failed to delete expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
