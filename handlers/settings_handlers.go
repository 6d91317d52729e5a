package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"utmattribution/api/models"
)

type SettingsHandlers struct {
	Settings SettingsRepository
}

func NewSettingsHandlers(settings SettingsRepository) *SettingsHandlers {
	return &SettingsHandlers{Settings: settings}
}

func (h *SettingsHandlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Settings.Get(c.Request.Context()))
}

// UpdateSettings replaces all settings. Omitted toggles are saved as off and the
// retention is clamped to [1, 3650] days.
func (h *SettingsHandlers) UpdateSettings(c *gin.Context) {
	var req models.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	saved, err := h.Settings.Save(c.Request.Context(), req.Config())
	if err != nil {
		log.Errorf("Error saving attribution settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, saved)
}
