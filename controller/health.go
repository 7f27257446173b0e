package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveenc/chatnexus/logic"
	"github.com/praveenc/chatnexus/models"
)

// HealthController handles HTTP requests
type HealthController struct {
	registry *logic.ProviderRegistry
}

func NewHealthController(registry *logic.ProviderRegistry) *HealthController {
	return &HealthController{registry: registry}
}

// Health handles GET /health. With a provider query it probes that
// backend; without one it probes all three.
func (c *HealthController) Health(ctx *gin.Context) {
	raw := ctx.Query("provider")
	if raw != "" {
		provider, ok := models.ParseProvider(raw)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider: " + raw})
			return
		}

		status := c.registry.Check(ctx.Request.Context(), provider)
		ctx.JSON(http.StatusOK, gin.H{
			"status":   status.Status,
			"message":  status.Message,
			"provider": provider,
		})
		return
	}

	ctx.JSON(http.StatusOK, c.registry.CheckAll(ctx.Request.Context()))
}
