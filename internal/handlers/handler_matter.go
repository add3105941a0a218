package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cabinetlib/practice_mgmt_app/internal/apperrors"
	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// matterHandler handles HTTP requests related to matters.
type matterHandler struct {
	matterService portssvc.MatterSvcFacade
}

func newMatterHandler(ms portssvc.MatterSvcFacade) *matterHandler {
	return &matterHandler{matterService: ms}
}

// registerMatterRoutes registers routes related to matters.
func registerMatterRoutes(rg *gin.RouterGroup, matterService portssvc.MatterSvcFacade) {
	h := newMatterHandler(matterService)

	matters := rg.Group("/matters")
	{
		matters.POST("", h.createMatter)
		matters.GET("", h.listMatters)
		matters.GET("/:id", h.getMatter)
		matters.PUT("/:id", h.updateMatter)
	}
}

// createMatter godoc
// @Summary Open a new matter for a client
// @Tags matters
// @Accept json
// @Produce json
// @Param matter body dto.CreateMatterRequest true "Matter details"
// @Success 201 {object} domain.Matter
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /matters [post]
func (h *matterHandler) createMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMatter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	matter, err := h.matterService.CreateMatter(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create matter", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create matter"})
		}
		return
	}

	logger.Info("Matter created", slog.String("matter_id", matter.MatterID))
	c.JSON(http.StatusCreated, matter)
}

// getMatter godoc
// @Summary Get a matter by ID
// @Tags matters
// @Produce json
// @Param id path string true "Matter ID"
// @Success 200 {object} domain.Matter
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /matters/{id} [get]
func (h *matterHandler) getMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	matterID := c.Param("id")

	matter, err := h.matterService.GetMatter(c.Request.Context(), matterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Matter not found"})
			return
		}
		logger.Error("Failed to get matter", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve matter"})
		return
	}
	c.JSON(http.StatusOK, matter)
}

// listMatters godoc
// @Summary List matters
// @Tags matters
// @Produce json
// @Param clientID query string false "Filter by client"
// @Param includeArchived query bool false "Include archived matters"
// @Success 200 {array} domain.Matter
// @Security BearerAuth
// @Router /matters [get]
func (h *matterHandler) listMatters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var clientID *string
	if v := c.Query("clientID"); v != "" {
		clientID = &v
	}
	includeArchived := c.Query("includeArchived") == "true"

	matters, err := h.matterService.ListMatters(c.Request.Context(), clientID, includeArchived)
	if err != nil {
		logger.Error("Failed to list matters", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list matters"})
		return
	}
	c.JSON(http.StatusOK, matters)
}

// updateMatter godoc
// @Summary Update a matter
// @Description Billing-type changes apply to future invoices only
// @Tags matters
// @Accept json
// @Produce json
// @Param id path string true "Matter ID"
// @Param matter body dto.UpdateMatterRequest true "Fields to update"
// @Success 200 {object} domain.Matter
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /matters/{id} [put]
func (h *matterHandler) updateMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	matterID := c.Param("id")

	var req dto.UpdateMatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateMatter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	matter, err := h.matterService.UpdateMatter(c.Request.Context(), matterID, req, updaterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Matter not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update matter", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update matter"})
		}
		return
	}
	c.JSON(http.StatusOK, matter)
}
