package logic

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/praveenc/chatnexus/models"
)

const (
	systemPrompt = "You are a helpful assistant that can answer questions and help with tasks"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// ChatAdapter is the contract every backend client satisfies: stream an
// assistant reply as parts, emitted incrementally
type ChatAdapter interface {
	StreamChat(ctx context.Context, req models.ChatRequest, emit func(models.Part) error) error
}

// ChatParams carries one chat exchange request
type ChatParams struct {
	Messages       []models.ChatMessage
	ConversationID *uuid.UUID
	Model          string
	Provider       models.ProviderType
	Temperature    float64
	MaxTokens      int
}

// ChatError is a classified dispatch failure with a user-facing message
// and a remediation detail
type ChatError struct {
	Message string
	Detail  string
}

func (e *ChatError) Error() string {
	return e.Message + ": " + e.Detail
}

// ChatLogic dispatches chat requests to the selected backend and
// persists completed exchanges
type ChatLogic struct {
	registry   *ProviderRegistry
	convoLogic *ConversationLogic
}

func NewChatLogic(registry *ProviderRegistry, convoLogic *ConversationLogic) *ChatLogic {
	return &ChatLogic{
		registry:   registry,
		convoLogic: convoLogic,
	}
}

// adapterFor selects exactly one of the three fixed adapters,
// defaulting to the local OpenAI-compatible one
func (l *ChatLogic) adapterFor(provider models.ProviderType) (ChatAdapter, models.ProviderType) {
	switch provider {
	case models.ProviderOllama:
		return l.registry.Ollama(), models.ProviderOllama
	case models.ProviderBedrock:
		if l.registry.Bedrock() != nil {
			return l.registry.Bedrock(), models.ProviderBedrock
		}
		return nil, models.ProviderBedrock
	default:
		return l.registry.LMStudio(), models.ProviderLMStudio
	}
}

// StreamChat submits the conversation to the selected backend and
// forwards reply parts to emit as they arrive. When a conversation id
// is supplied, the newest user message is persisted before dispatch and
// the assembled assistant message after the stream drains; both writes
// are detached and never block or fail the reply.
func (l *ChatLogic) StreamChat(ctx context.Context, params ChatParams, emit func(models.Part) error) error {
	if params.ConversationID != nil && len(params.Messages) > 0 {
		last := params.Messages[len(params.Messages)-1]
		convoID := *params.ConversationID
		go func() {
			if _, err := l.convoLogic.AppendMessage(convoID, last.Role, last.Parts); err != nil {
				log.Printf("Failed to save user message: %v", err)
			}
		}()
	}

	adapter, resolved := l.adapterFor(params.Provider)
	if adapter == nil {
		return classifyChatError(resolved, errNoBedrockCredentials{})
	}

	req := models.ChatRequest{
		Model:       params.Model,
		System:      systemPrompt,
		Messages:    params.Messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	// Bedrock gets a second attempt to absorb cold-start latency
	attempts := 1
	if resolved == models.ProviderBedrock {
		attempts = 2
	}

	var assembled models.Parts
	record := func(p models.Part) error {
		n := len(assembled)
		if n > 0 && assembled[n-1].Type == p.Type &&
			(p.Type == models.PartText || p.Type == models.PartReasoning) {
			assembled[n-1].Text += p.Text
		} else {
			assembled = append(assembled, p)
		}
		return emit(p)
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = adapter.StreamChat(ctx, req, record)
		if err == nil {
			break
		}
		// once output has been delivered the stream cannot be retried
		if len(assembled) > 0 {
			break
		}
	}
	if err != nil {
		return classifyChatError(resolved, err)
	}

	if params.ConversationID != nil {
		convoID := *params.ConversationID
		parts := assembled
		go func() {
			if _, err := l.convoLogic.AppendMessage(convoID, "assistant", parts); err != nil {
				log.Printf("Failed to save assistant message: %v", err)
				return
			}
			if err := l.convoLogic.Touch(convoID); err != nil {
				log.Printf("Failed to touch conversation: %v", err)
			}
		}()
	}

	return nil
}

type errNoBedrockCredentials struct{}

func (errNoBedrockCredentials) Error() string {
	return "bedrock credentials not configured"
}

// classifyChatError buckets a dispatch failure by message content.
// Credential and model-availability diagnoses only apply to bedrock;
// a local backend error that happens to mention credentials must not
// produce an AWS remediation message.
func classifyChatError(provider models.ProviderType, err error) *ChatError {
	detail := err.Error()

	if provider == models.ProviderBedrock {
		switch {
		case strings.Contains(detail, "credentials") || strings.Contains(detail, "AccessDenied"):
			return &ChatError{
				Message: "AWS credentials not configured or invalid",
				Detail:  "Please set AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and AWS_REGION environment variables",
			}
		case strings.Contains(detail, "ResourceNotFoundException"):
			return &ChatError{
				Message: "Model not available in your AWS region",
				Detail:  "Please check model access in AWS Bedrock console",
			}
		}
	}

	return &ChatError{
		Message: "Failed to generate response",
		Detail:  detail,
	}
}
