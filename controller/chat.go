package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praveenc/chatnexus/logic"
	"github.com/praveenc/chatnexus/models"
)

// ChatController handles HTTP requests
type ChatController struct {
	chatLogic *logic.ChatLogic
}

func NewChatController(chatLogic *logic.ChatLogic) *ChatController {
	return &ChatController{chatLogic: chatLogic}
}

// Chat handles POST /chat and streams the assistant reply as SSE parts
func (c *ChatController) Chat(ctx *gin.Context) {
	type Request struct {
		Messages       []models.ChatMessage `json:"messages" binding:"required"`
		ConversationID string               `json:"conversationId"`
		Model          string               `json:"model" binding:"required"`
		Provider       string               `json:"provider"`
		Temperature    *float64             `json:"temperature"`
		MaxTokens      *int                 `json:"maxTokens"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var convoID *uuid.UUID
	if req.ConversationID != "" {
		id, err := uuid.Parse(req.ConversationID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
			return
		}
		convoID = &id
	}

	// unknown or absent provider falls back to the local
	// OpenAI-compatible backend
	provider, ok := models.ParseProvider(req.Provider)
	if !ok {
		provider = models.ProviderLMStudio
	}

	temperature := logic.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := logic.DefaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	params := logic.ChatParams{
		Messages:       req.Messages,
		ConversationID: convoID,
		Model:          req.Model,
		Provider:       provider,
		Temperature:    temperature,
		MaxTokens:      maxTokens,
	}

	// Stream response to client using Server-Sent Events. Headers go
	// out with the first part so a pre-stream failure can still answer
	// with a plain JSON error.
	streamHeaders := func() {
		ctx.Header("Content-Type", "text/event-stream")
		ctx.Header("Cache-Control", "no-cache")
		ctx.Header("Connection", "keep-alive")
	}
	streamed := false
	err := c.chatLogic.StreamChat(ctx.Request.Context(), params, func(part models.Part) error {
		if !streamed {
			streamHeaders()
			streamed = true
		}
		ctx.SSEvent("part", part)
		ctx.Writer.Flush()
		return nil
	})
	if err != nil {
		var chatErr *logic.ChatError
		if !errors.As(err, &chatErr) {
			chatErr = &logic.ChatError{Message: "Failed to generate response", Detail: err.Error()}
		}

		// once bytes have gone out the error must ride the stream
		if streamed {
			ctx.SSEvent("error", gin.H{"error": chatErr.Message, "details": chatErr.Detail, "provider": provider})
			ctx.Writer.Flush()
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":    chatErr.Message,
			"details":  chatErr.Detail,
			"provider": provider,
		})
		return
	}

	// a reply with no parts still terminates as a stream
	if !streamed {
		streamHeaders()
	}
	ctx.SSEvent("done", gin.H{"finishReason": "stop"})
	ctx.Writer.Flush()
}
