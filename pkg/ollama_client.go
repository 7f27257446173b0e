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

// OllamaChatMessage is one entry of an Ollama chat request or response
type OllamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OllamaChatOptions struct {
	Temperature *float32 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

type OllamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []OllamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  *OllamaChatOptions  `json:"options,omitempty"`
}

// OllamaChatChunk is one NDJSON line of a streaming chat response
type OllamaChatChunk struct {
	Model   string            `json:"model"`
	Message OllamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
	Error   string            `json:"error,omitempty"`
}

// OllamaTag describes one locally pulled model from /api/tags
type OllamaTag struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Details struct {
		Family            string `json:"family"`
		ParameterSize     string `json:"parameter_size"`
		QuantizationLevel string `json:"quantization_level"`
	} `json:"details"`
}

type OllamaTagsResponse struct {
	Models []OllamaTag `json:"models"`
}

// OllamaClient talks to a local Ollama server
type OllamaClient struct {
	client  *http.Client
	baseURL string
}

func NewOllamaClient(baseURL string) *OllamaClient {
	return &OllamaClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the server address the client was built with
func (c *OllamaClient) BaseURL() string {
	return c.baseURL
}

// ListTags fetches the raw /tags listing of locally available models
func (c *OllamaClient) ListTags(ctx context.Context) (*OllamaTagsResponse, error) {
	url := fmt.Sprintf("%s/tags", c.baseURL)
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
		return nil, fmt.Errorf("tags listing returned status %d", resp.StatusCode)
	}

	var tags OllamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags listing: %v", err)
	}
	return &tags, nil
}

// CreateChatStream submits a streaming chat request and invokes handler
// for every NDJSON chunk until the done marker
func (c *OllamaClient) CreateChatStream(ctx context.Context, request OllamaChatRequest, handler func(*OllamaChatChunk) error) error {
	request.Stream = true

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %v", err)
	}

	url := fmt.Sprintf("%s/chat", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var chunk OllamaChatChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return fmt.Errorf("failed to unmarshal stream chunk: %v", err)
		}
		if chunk.Error != "" {
			return fmt.Errorf("ollama error: %s", chunk.Error)
		}

		if err := handler(&chunk); err != nil {
			return err
		}
		if chunk.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading stream: %v", err)
	}

	return nil
}

// StreamChat implements the dispatcher's adapter contract
func (c *OllamaClient) StreamChat(ctx context.Context, req models.ChatRequest, emit func(models.Part) error) error {
	chatMessages := []OllamaChatMessage{{Role: "system", Content: req.System}}
	for _, msg := range req.Messages {
		chatMessages = append(chatMessages, OllamaChatMessage{
			Role:    msg.Role,
			Content: msg.Parts.PromptText(),
		})
	}

	temp := float32(req.Temperature)
	numPredict := req.MaxTokens
	request := OllamaChatRequest{
		Model:    req.Model,
		Messages: chatMessages,
		Options: &OllamaChatOptions{
			Temperature: &temp,
			NumPredict:  &numPredict,
		},
	}

	return c.CreateChatStream(ctx, request, func(chunk *OllamaChatChunk) error {
		if chunk.Message.Content != "" {
			return emit(models.Part{Type: models.PartText, Text: chunk.Message.Content})
		}
		return nil
	})
}
