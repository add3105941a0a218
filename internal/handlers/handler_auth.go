package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/cabinetlib/practice_mgmt_app/internal/core/ports/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/core/services"
	"github.com/cabinetlib/practice_mgmt_app/internal/dto"
	"github.com/cabinetlib/practice_mgmt_app/internal/middleware"
	"github.com/cabinetlib/practice_mgmt_app/internal/platform/config"
	"github.com/cabinetlib/practice_mgmt_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// authHandler handles login requests.
type authHandler struct {
	profileService portssvc.ProfileSvcFacade
	cfg            *config.Config
}

func newAuthHandler(ps portssvc.ProfileSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{profileService: ps, cfg: cfg}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, svc *portssvc.ServiceContainer) {
	h := newAuthHandler(svc.Profile, cfg)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", h.login)
	}
}

// login godoc
// @Summary Authenticate a collaborator
// @Description Verifies email and password and returns a bearer JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.profileService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.Warn("Login failed", slog.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.Error("Failed to authenticate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	token, err := utils.GenerateJWT(profile.ProfileID, h.cfg.JWTSecret, h.cfg.JWTIssuer, h.cfg.JWTExpiryDuration)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info("Collaborator logged in", slog.String("profile_id", profile.ProfileID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ProfileID: profile.ProfileID,
		Name:      profile.Name,
	})
}
