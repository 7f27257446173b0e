package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartType tags the variant of a message content part
type PartType string

const (
	PartText       PartType = "text"
	PartReasoning  PartType = "reasoning"
	PartToolCall   PartType = "tool-call"
	PartToolResult PartType = "tool-result"
	PartSource     PartType = "source-reference"
)

// Part is one unit of message content. The Type field selects the
// variant; only the fields belonging to that variant are set.
type Part struct {
	Type PartType `json:"type"`

	// text, reasoning
	Text string `json:"text,omitempty"`

	// tool-call, tool-result
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`

	// source-reference
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// Parts is stored as a single JSON column on the message row
type Parts []Part

// PromptText flattens the parts into the plain text sent to a backend.
// Reasoning traces, tool traffic and citations are not replayed.
func (ps Parts) PromptText() string {
	var b strings.Builder
	for _, p := range ps {
		switch p.Type {
		case PartText:
			b.WriteString(p.Text)
		case PartReasoning, PartToolCall, PartToolResult, PartSource:
			// not part of the conversational text
		}
	}
	return b.String()
}

// Message represents a message in a conversation. Append-only, ordered
// by creation timestamp, never mutated after creation.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversationId"`
	Role           string    `gorm:"not null" json:"role"` // "user", "assistant" or "system"
	Parts          Parts     `gorm:"serializer:json" json:"parts"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChatMessage is one entry of the incoming request history
type ChatMessage struct {
	ID    string `json:"id,omitempty"`
	Role  string `json:"role"`
	Parts Parts  `json:"parts"`
}

// ChatRequest is the dispatcher's outgoing request to a backend adapter
type ChatRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}
