package pkg

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/praveenc/chatnexus/models"
)

// RequestMessage is one entry of an OpenAI-compatible chat request
type RequestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
}

type ChatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []RequestMessage `json:"messages"`
	MaxTokens   uint32           `json:"max_tokens,omitempty"`
	Temperature *float32         `json:"temperature,omitempty"`
	Stream      *bool            `json:"stream,omitempty"`
	Stop        []string         `json:"stop,omitempty"`
}

// DeltaMessage carries the incremental content of one stream chunk
type DeltaMessage struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type StreamChoice struct {
	Index        uint32       `json:"index"`
	Delta        DeltaMessage `json:"delta"`
	FinishReason string       `json:"finish_reason"`
}

type StreamChatCompletionResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created uint64         `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// ModelEntry is one entry of the /models listing
type ModelEntry struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	OwnedBy       string `json:"owned_by,omitempty"`
	ContextLength int    `json:"context_length,omitempty"`
}

type ModelListResponse struct {
	Object string       `json:"object"`
	Data   []ModelEntry `json:"data"`
}

// OpenAIClient talks to an OpenAI-compatible local server (LM Studio)
type OpenAIClient struct {
	client  *http.Client
	baseURL string
}

func NewOpenAIClient(baseURL string) *OpenAIClient {
	return &OpenAIClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the server address the client was built with
func (c *OpenAIClient) BaseURL() string {
	return c.baseURL
}

func (c *OpenAIClient) post(ctx context.Context, endpoint string, body interface{}) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}

// ListModels fetches the raw /models listing
func (c *OpenAIClient) ListModels(ctx context.Context) (*ModelListResponse, error) {
	url := fmt.Sprintf("%s/models", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("models listing returned status %d", resp.StatusCode)
	}

	var list ModelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal models listing: %v", err)
	}
	return &list, nil
}

// CreateChatCompletionStream submits a streaming chat completion and
// invokes handler for every parsed chunk
func (c *OpenAIClient) CreateChatCompletionStream(ctx context.Context, request ChatCompletionRequest, handler func(*StreamChatCompletionResponse) error) error {
	streamTrue := true
	request.Stream = &streamTrue

	resp, err := c.post(ctx, "chat/completions", request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}

		if line == "data: [DONE]" {
			break
		}

		jsonData := line[6:]
		var chunk StreamChatCompletionResponse
		if err := json.Unmarshal([]byte(jsonData), &chunk); err != nil {
			return fmt.Errorf("failed to unmarshal stream chunk: %v", err)
		}

		if err := handler(&chunk); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading stream: %v", err)
	}

	return nil
}

// StreamChat implements the dispatcher's adapter contract
func (c *OpenAIClient) StreamChat(ctx context.Context, req models.ChatRequest, emit func(models.Part) error) error {
	chatMessages := []RequestMessage{{Role: "system", Content: req.System}}
	for _, msg := range req.Messages {
		chatMessages = append(chatMessages, RequestMessage{
			Role:    msg.Role,
			Content: msg.Parts.PromptText(),
		})
	}

	temp := float32(req.Temperature)
	request := ChatCompletionRequest{
		Model:       req.Model,
		Messages:    chatMessages,
		MaxTokens:   uint32(req.MaxTokens),
		Temperature: &temp,
	}

	return c.CreateChatCompletionStream(ctx, request, func(chunk *StreamChatCompletionResponse) error {
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				if err := emit(models.Part{Type: models.PartText, Text: choice.Delta.Content}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
