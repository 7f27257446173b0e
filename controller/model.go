package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praveenc/chatnexus/logic"
	"github.com/praveenc/chatnexus/models"
)

// ModelController handles HTTP requests
type ModelController struct {
	modelLogic *logic.ModelLogic
	registry   *logic.ProviderRegistry
}

func NewModelController(modelLogic *logic.ModelLogic, registry *logic.ProviderRegistry) *ModelController {
	return &ModelController{modelLogic: modelLogic, registry: registry}
}

// ListModels handles GET /models. Without a provider query it
// aggregates every backend, tolerating individual failures.
func (c *ModelController) ListModels(ctx *gin.Context) {
	var scoped *models.ProviderType
	if raw := ctx.Query("provider"); raw != "" {
		provider, ok := models.ParseProvider(raw)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider: " + raw})
			return
		}
		scoped = &provider
	}

	list, counts, err := c.modelLogic.ListModels(ctx.Request.Context(), scoped)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to list models"
		if scoped != nil && *scoped == models.ProviderBedrock {
			status, message = logic.BedrockErrorStatus(err)
		}
		ctx.JSON(status, gin.H{
			"error":   message,
			"details": err.Error(),
			"models":  []models.Model{},
			"count":   0,
		})
		return
	}

	providers := gin.H{}
	for id := range models.DefaultProviders() {
		providers[string(id)] = counts[id]
	}

	ctx.JSON(http.StatusOK, gin.H{
		"models":    list,
		"count":     len(list),
		"providers": providers,
	})
}

// ListBedrockModels handles GET /bedrock/models, the cloud-scoped
// variant that surfaces credential and permission failures explicitly
func (c *ModelController) ListBedrockModels(ctx *gin.Context) {
	list, err := c.modelLogic.ListBedrockModels(ctx.Request.Context())
	if err != nil {
		status, message := logic.BedrockErrorStatus(err)
		ctx.JSON(status, gin.H{
			"error":       message,
			"errorType":   logic.BedrockErrorName(err),
			"errorDetail": err.Error(),
			"models":      []models.Model{},
			"count":       0,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"models": list,
		"count":  len(list),
	})
}

// ModelInfo handles POST /model-info, looking up a single LM Studio
// model's detail record
func (c *ModelController) ModelInfo(ctx *gin.Context) {
	type Request struct {
		ModelKey string `json:"modelKey"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil || req.ModelKey == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Model key is required"})
		return
	}

	list, err := c.registry.LMStudio().ListModels(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get model info",
			"details": err.Error(),
		})
		return
	}

	for _, entry := range list.Data {
		if entry.ID != req.ModelKey {
			continue
		}
		contextLength := entry.ContextLength
		if contextLength == 0 {
			contextLength = 4096
		}
		ctx.JSON(http.StatusOK, gin.H{
			"modelKey":         entry.ID,
			"displayName":      entry.ID,
			"architecture":     "Unknown",
			"contextLength":    contextLength,
			"maxContextLength": contextLength,
		})
		return
	}

	ctx.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
}
