package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenc/chatnexus/logic"
	"github.com/praveenc/chatnexus/pkg"
)

func newChatRouter(lmstudioURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	registry := logic.NewProviderRegistry(
		pkg.NewOpenAIClient(lmstudioURL),
		pkg.NewOllamaClient("http://localhost:11434/api"),
		nil,
	)
	chatCtrl := NewChatController(logic.NewChatLogic(registry, nil))

	r := gin.New()
	r.POST("/chat", chatCtrl.Chat)
	return r
}

func TestChatStreamsParts(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer backend.Close()

	r := newChatRouter(backend.URL)

	body := bytes.NewBufferString(`{
		"messages": [{"role":"user","parts":[{"type":"text","text":"Hi"}]}],
		"model": "qwen2.5-7b"
	}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event:part")
	assert.Contains(t, w.Body.String(), "Hello")
	assert.Contains(t, w.Body.String(), "event:done")
}

func TestChatEmptyReplyStillStreams(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer backend.Close()

	r := newChatRouter(backend.URL)

	body := bytes.NewBufferString(`{
		"messages": [{"role":"user","parts":[{"type":"text","text":"Hi"}]}],
		"model": "qwen2.5-7b"
	}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.NotContains(t, w.Body.String(), "event:part")
	assert.Contains(t, w.Body.String(), "event:done")
}

func TestChatRejectsMissingModel(t *testing.T) {
	r := newChatRouter("http://localhost:1234/v1")

	body := bytes.NewBufferString(`{"messages":[{"role":"user","parts":[{"type":"text","text":"Hi"}]}]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatRejectsBadConversationID(t *testing.T) {
	r := newChatRouter("http://localhost:1234/v1")

	body := bytes.NewBufferString(`{
		"messages": [{"role":"user","parts":[{"type":"text","text":"Hi"}]}],
		"model": "qwen2.5-7b",
		"conversationId": "not-a-uuid"
	}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatBackendFailureReturnsStructuredError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	r := newChatRouter(backend.URL)

	body := bytes.NewBufferString(`{
		"messages": [{"role":"user","parts":[{"type":"text","text":"Hi"}]}],
		"model": "qwen2.5-7b"
	}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate response")
	assert.Contains(t, w.Body.String(), "lmstudio")
}