package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveenc/chatnexus/logic"
)

// SettingsController handles HTTP requests
type SettingsController struct {
	settingsLogic *logic.SettingsLogic
}

func NewSettingsController(settingsLogic *logic.SettingsLogic) *SettingsController {
	return &SettingsController{settingsLogic: settingsLogic}
}

// GetSettings handles GET /settings, reporting secret presence only
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.settingsLogic.Read())
}

// SaveSettings handles POST /settings, merging unmasked values into the
// persisted env file
func (c *SettingsController) SaveSettings(ctx *gin.Context) {
	var input logic.SettingsInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.settingsLogic.Save(input); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save settings",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Settings saved to .env file. Please restart the server for changes to take effect.",
	})
}
