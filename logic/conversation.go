package logic

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/praveenc/chatnexus/dao"
	"github.com/praveenc/chatnexus/models"
)

// listCap bounds the conversation listing
const listCap = 50

// defaultTitle is used when a conversation is created without one
const defaultTitle = "New Chat"

// ConversationLogic handles conversation-related business logic
type ConversationLogic struct {
	convoDAO   *dao.ConversationDAO
	messageDAO *dao.MessageDAO
}

func NewConversationLogic(convoDAO *dao.ConversationDAO, messageDAO *dao.MessageDAO) *ConversationLogic {
	return &ConversationLogic{
		convoDAO:   convoDAO,
		messageDAO: messageDAO,
	}
}

// CreateConversation creates a new conversation and returns it
func (l *ConversationLogic) CreateConversation(title string) (*models.Conversation, error) {
	if title == "" {
		title = defaultTitle
	}
	return l.convoDAO.CreateConversation(title)
}

// ListConversations returns the most recently updated conversations,
// capped at 50
func (l *ConversationLogic) ListConversations() ([]models.Conversation, error) {
	return l.convoDAO.ListConversations(listCap)
}

// AppendMessage appends a message to a live conversation. It fails when
// the conversation does not exist, keeping messages free of orphans.
func (l *ConversationLogic) AppendMessage(conversationID uuid.UUID, role string, parts models.Parts) (*models.Message, error) {
	if _, err := l.convoDAO.GetConversationByID(conversationID); err != nil {
		return nil, fmt.Errorf("conversation %s not found: %v", conversationID, err)
	}
	return l.messageDAO.CreateMessage(conversationID, role, parts)
}

// Touch refreshes the conversation's last-updated timestamp
func (l *ConversationLogic) Touch(conversationID uuid.UUID) error {
	return l.convoDAO.TouchConversation(conversationID)
}

// GetMessages retrieves all messages in a conversation in creation order
func (l *ConversationLogic) GetMessages(conversationID uuid.UUID) ([]models.Message, error) {
	return l.messageDAO.GetMessagesByConversationID(conversationID)
}

// DeleteConversation removes the conversation and all of its messages.
// Both deletes are attempted; a partial failure is reported to the
// caller rather than leaving it silent.
func (l *ConversationLogic) DeleteConversation(conversationID uuid.UUID) error {
	convoErr := l.convoDAO.DeleteConversation(conversationID)
	msgErr := l.messageDAO.DeleteMessagesByConversationID(conversationID)

	if convoErr != nil && msgErr != nil {
		return fmt.Errorf("failed to delete conversation: %v; failed to delete messages: %v", convoErr, msgErr)
	}
	if convoErr != nil {
		return fmt.Errorf("conversation messages deleted, but the conversation itself failed: %v", convoErr)
	}
	if msgErr != nil {
		return fmt.Errorf("conversation deleted, but its messages failed: %v", msgErr)
	}
	return nil
}
