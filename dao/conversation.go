package dao

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praveenc/chatnexus/models"
)

// ConversationDAO handles conversation-related database operations
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation with the given title
func (d *ConversationDAO) CreateConversation(title string) (*models.Conversation, error) {
	convo := &models.Conversation{
		ID:    uuid.New(),
		Title: title,
	}
	if err := d.db.Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

// GetConversationByID retrieves a single conversation
func (d *ConversationDAO) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.First(&convo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// ListConversations returns at most limit conversations, most recently
// updated first
func (d *ConversationDAO) ListConversations(limit int) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.Order("updated_at DESC").Limit(limit).Find(&convos).Error; err != nil {
		return nil, err
	}
	return convos, nil
}

// TouchConversation refreshes the conversation's last-updated timestamp
func (d *ConversationDAO) TouchConversation(id uuid.UUID) error {
	return d.db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// DeleteConversation removes the conversation row. Messages are removed
// separately by the message DAO.
func (d *ConversationDAO) DeleteConversation(id uuid.UUID) error {
	return d.db.Delete(&models.Conversation{}, "id = ?", id).Error
}
