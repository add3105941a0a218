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

// profileHandler handles HTTP requests related to collaborator profiles.
type profileHandler struct {
	profileService portssvc.ProfileSvcFacade
}

func newProfileHandler(ps portssvc.ProfileSvcFacade) *profileHandler {
	return &profileHandler{profileService: ps}
}

// registerProfileRoutes registers routes related to profiles.
func registerProfileRoutes(rg *gin.RouterGroup, profileService portssvc.ProfileSvcFacade) {
	h := newProfileHandler(profileService)

	profiles := rg.Group("/profiles")
	{
		profiles.POST("", h.createProfile)
		profiles.GET("", h.listProfiles)
		profiles.GET("/:id", h.getProfile)
		profiles.PUT("/:id", h.updateProfile)
	}
}

// createProfile godoc
// @Summary Register a new collaborator
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body dto.CreateProfileRequest true "Profile details"
// @Success 201 {object} domain.Profile
// @Failure 409 {object} map[string]string "Email already registered"
// @Security BearerAuth
// @Router /profiles [post]
func (h *profileHandler) createProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), req, creatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error("Failed to create profile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	logger.Info("Profile created", slog.String("profile_id", profile.ProfileID))
	c.JSON(http.StatusCreated, profile)
}

// getProfile godoc
// @Summary Get a collaborator profile by ID
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profiles/{id} [get]
func (h *profileHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	profileID := c.Param("id")

	profile, err := h.profileService.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		logger.Error("Failed to get profile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// listProfiles godoc
// @Summary List collaborator profiles
// @Tags profiles
// @Produce json
// @Param includeInactive query bool false "Include deactivated profiles"
// @Success 200 {array} domain.Profile
// @Security BearerAuth
// @Router /profiles [get]
func (h *profileHandler) listProfiles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive := c.Query("includeInactive") == "true"

	profiles, err := h.profileService.ListProfiles(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list profiles", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list profiles"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// updateProfile godoc
// @Summary Update a collaborator profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param profile body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profiles/{id} [put]
func (h *profileHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	profileID := c.Param("id")

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), profileID, req, updaterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		logger.Error("Failed to update profile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
