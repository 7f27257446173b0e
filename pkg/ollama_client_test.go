package pkg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenc/chatnexus/models"
)

func TestOllamaStreamChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		lines := []string{
			`{"model":"llama3.2","message":{"role":"assistant","content":"Hel"},"done":false}`,
			`{"model":"llama3.2","message":{"role":"assistant","content":"lo"},"done":false}`,
			`{"model":"llama3.2","message":{"role":"assistant","content":""},"done":true}`,
		}
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)

	var text string
	err := client.StreamChat(context.Background(), models.ChatRequest{
		Model:  "llama3.2",
		System: "be brief",
		Messages: []models.ChatMessage{
			{Role: "user", Parts: models.Parts{{Type: models.PartText, Text: "Hi"}}},
		},
		Temperature: 0.7,
		MaxTokens:   100,
	}, func(p models.Part) error {
		assert.Equal(t, models.PartText, p.Type)
		text += p.Text
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestOllamaStreamChatSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"model 'missing' not found"}`)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)

	err := client.StreamChat(context.Background(), models.ChatRequest{
		Model: "missing",
		Messages: []models.ChatMessage{
			{Role: "user", Parts: models.Parts{{Type: models.PartText, Text: "Hi"}}},
		},
	}, func(models.Part) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOllamaListTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"llama3.2:latest","size":2019393189,"details":{"family":"llama"}}]}`)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)

	tags, err := client.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags.Models, 1)
	assert.Equal(t, "llama3.2:latest", tags.Models[0].Name)
	assert.Equal(t, "llama", tags.Models[0].Details.Family)
}
