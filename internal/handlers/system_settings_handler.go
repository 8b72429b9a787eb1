package handlers

import (
	"context"
	"net/http"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SystemSettingsService is the settings behaviour the handler needs
type SystemSettingsService interface {
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, upd services.SettingsUpdate, updatedBy string) (*models.SystemSettings, error)
	MiniDrawPackagesForDisplay(ctx context.Context) ([]catalog.MiniDrawPackage, error)
}

// SystemSettingsHandler handles system settings-related HTTP requests
type SystemSettingsHandler struct {
	settingsService SystemSettingsService
}

// NewSystemSettingsHandler creates a new SystemSettingsHandler
func NewSystemSettingsHandler(settingsService SystemSettingsService) *SystemSettingsHandler {
	return &SystemSettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings handles GET /admin/settings
func (h *SystemSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /admin/settings
func (h *SystemSettingsHandler) UpdateSettings(c *gin.Context) {
	var upd services.SettingsUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, bindError(err))
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), upd, c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetMiniDrawPackages handles GET /packages/mini-draw
func (h *SystemSettingsHandler) GetMiniDrawPackages(c *gin.Context) {
	pkgs, err := h.settingsService.MiniDrawPackagesForDisplay(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": pkgs})
}
