package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praveenc/chatnexus/models"
)

// MessageDAO handles message-related database operations
type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

// CreateMessage appends a message to a conversation
func (d *MessageDAO) CreateMessage(conversationID uuid.UUID, role string, parts models.Parts) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: conversationID,
		Role:           role,
		Parts:          parts,
	}
	if err := d.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessagesByConversationID retrieves all messages in a conversation
// in creation order
func (d *MessageDAO) GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := d.db.Where("conversation_id = ?", conversationID).Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteMessagesByConversationID removes every message belonging to a
// conversation
func (d *MessageDAO) DeleteMessagesByConversationID(conversationID uuid.UUID) error {
	return d.db.Delete(&models.Message{}, "conversation_id = ?", conversationID).Error
}
