package logic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrock/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenc/chatnexus/models"
)

func TestDedupeModelsLastWins(t *testing.T) {
	in := []models.Model{
		{Key: "a", Name: "first-a", Provider: models.ProviderLMStudio},
		{Key: "b", Name: "only-b", Provider: models.ProviderOllama},
		{Key: "a", Name: "second-a", Provider: models.ProviderBedrock},
	}

	out := DedupeModels(in)

	assert.Len(t, out, 2)
	// the later duplicate wins but keeps the first occurrence's position
	assert.Equal(t, "a", out[0].Key)
	assert.Equal(t, "second-a", out[0].Name)
	assert.Equal(t, models.ProviderBedrock, out[0].Provider)
	assert.Equal(t, "b", out[1].Key)
}

func TestDedupeModelsNoDuplicates(t *testing.T) {
	in := []models.Model{
		{Key: "x"},
		{Key: "y"},
	}
	out := DedupeModels(in)
	assert.Equal(t, in, out)
}

func TestSortModelsPreferredVendorFirst(t *testing.T) {
	in := []models.Model{
		{Key: "1", Name: "Mistral Large"},
		{Key: "2", Name: "Claude 3.5 Sonnet v2"},
		{Key: "3", Name: "Amazon Nova Pro"},
		{Key: "4", Name: "anthropic.claude-3-5-haiku"},
		{Key: "5", Name: "Llama 3.3 70B"},
	}

	SortModels(in)

	names := make([]string, len(in))
	for i, m := range in {
		names[i] = m.Name
	}
	assert.Equal(t, []string{
		"Claude 3.5 Sonnet v2",
		"anthropic.claude-3-5-haiku",
		"Amazon Nova Pro",
		"Llama 3.3 70B",
		"Mistral Large",
	}, names)
}

func TestSortModelsLexicalTieBreak(t *testing.T) {
	in := []models.Model{
		{Name: "Claude B"},
		{Name: "Claude A"},
		{Name: "Zebra"},
		{Name: "Alpha"},
	}

	SortModels(in)

	assert.Equal(t, "Claude A", in[0].Name)
	assert.Equal(t, "Claude B", in[1].Name)
	assert.Equal(t, "Alpha", in[2].Name)
	assert.Equal(t, "Zebra", in[3].Name)
}

func TestListModelsAggregateToleratesFailure(t *testing.T) {
	lmstudio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"object":"list","data":[{"id":"qwen2.5-7b","context_length":32768}]}`)
	}))
	defer lmstudio.Close()
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ollama.Close() // unreachable

	l := NewModelLogic(newTestRegistry(lmstudio.URL, ollama.URL))

	list, counts, err := l.ListModels(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "qwen2.5-7b", list[0].Key)
	assert.Equal(t, 32768, list[0].MaxContextLength)
	assert.Equal(t, 1, counts[models.ProviderLMStudio])
	assert.Equal(t, 0, counts[models.ProviderOllama])
}

func TestListModelsScopedFailureSurfaces(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ollama.Close()

	l := NewModelLogic(newTestRegistry("http://localhost:1234/v1", ollama.URL))

	scoped := models.ProviderOllama
	_, _, err := l.ListModels(context.Background(), &scoped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ollama not available")
}

func TestListModelsNormalizesOllamaTags(t *testing.T) {
	lmstudio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	lmstudio.Close()
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models":[{"name":"llama3.2:latest","size":2019393189,"details":{"family":"llama"}}]}`)
	}))
	defer ollama.Close()

	l := NewModelLogic(newTestRegistry(lmstudio.URL, ollama.URL))

	scoped := models.ProviderOllama
	list, _, err := l.ListModels(context.Background(), &scoped)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "llama3.2:latest", list[0].Key)
	assert.Equal(t, "1.9GB", list[0].Size)
	assert.Equal(t, "llama", list[0].Architecture)
	assert.Equal(t, models.ProviderOllama, list[0].Provider)
}

func TestListBedrockModelsWithoutClient(t *testing.T) {
	l := NewModelLogic(newTestRegistry("http://localhost:1234/v1", "http://localhost:11434/api"))

	_, err := l.ListBedrockModels(context.Background())
	require.Error(t, err)

	status, message := BedrockErrorStatus(err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, message, "AWS credentials not found")
}

func inferenceProfile(id, name, modelArn string) bedrocktypes.InferenceProfileSummary {
	p := bedrocktypes.InferenceProfileSummary{
		InferenceProfileId:   aws.String(id),
		InferenceProfileName: aws.String(name),
	}
	if modelArn != "" {
		p.Models = []bedrocktypes.InferenceProfileModel{{ModelArn: aws.String(modelArn)}}
	}
	return p
}

func TestNormalizeInferenceProfilesDropsNonChatProfiles(t *testing.T) {
	profiles := []bedrocktypes.InferenceProfileSummary{
		inferenceProfile("us.anthropic.claude-3-5-sonnet", "Claude 3.5 Sonnet",
			"arn:aws:bedrock:us-east-1::foundation-model/anthropic.claude-3-5-sonnet-20241022-v2:0"),
		inferenceProfile("us.empty", "No Models", ""),
		inferenceProfile("us.cohere.embed-english", "Cohere Embed English",
			"arn:aws:bedrock:us-east-1::foundation-model/cohere.embed-english-v3"),
		inferenceProfile("us.stability.stable-image-core", "Stable Image Core",
			"arn:aws:bedrock:us-east-1::foundation-model/stability.stable-image-core-v1:0"),
		inferenceProfile("us.twelvelabs.pegasus", "TwelveLabs Pegasus",
			"arn:aws:bedrock:us-east-1::foundation-model/twelvelabs.pegasus-1-2-v1:0"),
		inferenceProfile("us.meta.llama3-3-70b", "Llama 3.3 70B",
			"arn:aws:bedrock:us-east-1::foundation-model/meta.llama3-3-70b-instruct-v1:0"),
	}

	out := normalizeInferenceProfiles(profiles)

	require.Len(t, out, 2)
	assert.Equal(t, "us.anthropic.claude-3-5-sonnet", out[0].Key)
	assert.Equal(t, "Claude 3.5 Sonnet", out[0].Name)
	assert.Equal(t, "Cloud", out[0].Size)
	assert.Equal(t, "Amazon Bedrock", out[0].Architecture)
	assert.Equal(t, models.ProviderBedrock, out[0].Provider)
	assert.Equal(t, "us.meta.llama3-3-70b", out[1].Key)
}

func TestNormalizeInferenceProfilesNameFallsBackToID(t *testing.T) {
	profiles := []bedrocktypes.InferenceProfileSummary{
		inferenceProfile("us.amazon.nova-pro", "",
			"arn:aws:bedrock:us-east-1::foundation-model/amazon.nova-pro-v1:0"),
	}

	out := normalizeInferenceProfiles(profiles)

	require.Len(t, out, 1)
	assert.Equal(t, "us.amazon.nova-pro", out[0].Key)
	assert.Equal(t, "us.amazon.nova-pro", out[0].Name)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "Unknown", formatBytes(0))
	assert.Equal(t, "4.7GB", formatBytes(5046586572))
	assert.Equal(t, "500MB", formatBytes(500*1024*1024))
}
