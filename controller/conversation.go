package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praveenc/chatnexus/logic"
)

// ConversationController handles HTTP requests
type ConversationController struct {
	convoLogic *logic.ConversationLogic
}

func NewConversationController(convoLogic *logic.ConversationLogic) *ConversationController {
	return &ConversationController{convoLogic: convoLogic}
}

// CreateConversation handles POST /conversations
func (c *ConversationController) CreateConversation(ctx *gin.Context) {
	type Request struct {
		Title string `json:"title"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	convo, err := c.convoLogic.CreateConversation(req.Title)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": convo.ID})
}

// ListConversations handles GET /conversations
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	convos, err := c.convoLogic.ListConversations()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	ctx.JSON(http.StatusOK, convos)
}

// GetMessages handles GET /conversations/:id
func (c *ConversationController) GetMessages(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	messages, err := c.convoLogic.GetMessages(convoID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get conversation messages"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}

// DeleteConversation handles DELETE /conversations/:id
func (c *ConversationController) DeleteConversation(ctx *gin.Context) {
	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	if err := c.convoLogic.DeleteConversation(convoID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation", "details": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
