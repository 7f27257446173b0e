package logic

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrock/types"

	"github.com/praveenc/chatnexus/models"
)

// defaultContextLength is assumed when a backend does not report one
const defaultContextLength = 4096

// ModelLogic aggregates and normalizes model listings across providers
type ModelLogic struct {
	registry *ProviderRegistry
}

func NewModelLogic(registry *ProviderRegistry) *ModelLogic {
	return &ModelLogic{registry: registry}
}

// ListModels returns the normalized model list. With scoped set, only
// that provider is queried and its failure surfaces as an error; an
// aggregate query tolerates individual backend failures.
func (l *ModelLogic) ListModels(ctx context.Context, scoped *models.ProviderType) ([]models.Model, map[models.ProviderType]int, error) {
	wants := func(id models.ProviderType) bool {
		return scoped == nil || *scoped == id
	}

	var all []models.Model

	if wants(models.ProviderLMStudio) {
		lm, err := l.fetchLMStudioModels(ctx)
		if err != nil {
			if scoped != nil {
				return nil, nil, fmt.Errorf("LMStudio not available: %v", err)
			}
			log.Printf("LMStudio not available: %v", err)
		} else {
			all = append(all, lm...)
		}
	}

	if wants(models.ProviderOllama) {
		ol, err := l.fetchOllamaModels(ctx)
		if err != nil {
			if scoped != nil {
				return nil, nil, fmt.Errorf("Ollama not available: %v", err)
			}
			log.Printf("Ollama not available: %v", err)
		} else {
			all = append(all, ol...)
		}
	}

	if wants(models.ProviderBedrock) {
		br, err := l.ListBedrockModels(ctx)
		if err != nil {
			if scoped != nil {
				return nil, nil, err
			}
			log.Printf("Bedrock not available: %v", err)
		} else {
			all = append(all, br...)
		}
	}

	all = DedupeModels(all)
	SortModels(all)

	counts := make(map[models.ProviderType]int)
	for _, m := range all {
		counts[m.Provider]++
	}

	return all, counts, nil
}

func (l *ModelLogic) fetchLMStudioModels(ctx context.Context) ([]models.Model, error) {
	list, err := l.registry.LMStudio().ListModels(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Model, 0, len(list.Data))
	for _, entry := range list.Data {
		contextLength := entry.ContextLength
		if contextLength == 0 {
			contextLength = defaultContextLength
		}
		out = append(out, models.Model{
			Key:              entry.ID,
			Name:             entry.ID,
			Size:             "Unknown",
			Architecture:     "Unknown",
			MaxContextLength: contextLength,
			IsLoaded:         true,
			Provider:         models.ProviderLMStudio,
		})
	}
	return out, nil
}

func (l *ModelLogic) fetchOllamaModels(ctx context.Context) ([]models.Model, error) {
	tags, err := l.registry.Ollama().ListTags(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Model, 0, len(tags.Models))
	for _, tag := range tags.Models {
		arch := tag.Details.Family
		if arch == "" {
			arch = "Unknown"
		}
		out = append(out, models.Model{
			Key:  tag.Name,
			Name: tag.Name,
			Size: formatBytes(tag.Size),
			// the tags endpoint does not expose the context window
			MaxContextLength: defaultContextLength,
			Architecture:     arch,
			IsLoaded:         true,
			Provider:         models.ProviderOllama,
		})
	}
	return out, nil
}

// ListBedrockModels enumerates system-defined inference profiles and
// normalizes them, excluding profiles without a concrete model and
// embedding/image-only entries
func (l *ModelLogic) ListBedrockModels(ctx context.Context) ([]models.Model, error) {
	client := l.registry.Bedrock()
	if client == nil {
		return nil, fmt.Errorf("bedrock credentials not configured")
	}

	profiles, err := client.ListInferenceProfiles(ctx)
	if err != nil {
		return nil, err
	}

	out := normalizeInferenceProfiles(profiles)
	out = DedupeModels(out)
	SortModels(out)
	return out, nil
}

// normalizeInferenceProfiles maps profile summaries to the normalized
// model shape. Profiles without a concrete model are dropped, as are
// embedding, image-generation and video-understanding entries, none of
// which can serve a chat request.
func normalizeInferenceProfiles(profiles []bedrocktypes.InferenceProfileSummary) []models.Model {
	var out []models.Model
	for _, profile := range profiles {
		if len(profile.Models) == 0 {
			continue
		}

		modelArn := ""
		if profile.Models[0].ModelArn != nil {
			modelArn = strings.ToLower(*profile.Models[0].ModelArn)
		}
		if strings.Contains(modelArn, "embed") ||
			strings.Contains(modelArn, "stable-image") ||
			strings.Contains(modelArn, "twelvelabs") {
			continue
		}

		key := ""
		if profile.InferenceProfileId != nil {
			key = *profile.InferenceProfileId
		}
		name := key
		if profile.InferenceProfileName != nil && *profile.InferenceProfileName != "" {
			name = *profile.InferenceProfileName
		}

		out = append(out, models.Model{
			Key:          key,
			Name:         name,
			Size:         "Cloud",
			Architecture: "Amazon Bedrock",
			Provider:     models.ProviderBedrock,
		})
	}
	return out
}

// DedupeModels keeps exactly one entry per key. The last occurrence
// wins, while the position of the first occurrence is preserved.
func DedupeModels(in []models.Model) []models.Model {
	indexByKey := make(map[string]int, len(in))
	out := make([]models.Model, 0, len(in))
	for _, m := range in {
		if idx, seen := indexByKey[m.Key]; seen {
			out[idx] = m
			continue
		}
		indexByKey[m.Key] = len(out)
		out = append(out, m)
	}
	return out
}

// SortModels orders Anthropic/Claude-named entries before all others,
// ascending lexical by display name within each group
func SortModels(in []models.Model) {
	sort.SliceStable(in, func(i, j int) bool {
		a, b := in[i], in[j]
		aPreferred := isPreferredVendor(a.Name)
		bPreferred := isPreferredVendor(b.Name)
		if aPreferred != bPreferred {
			return aPreferred
		}
		return a.Name < b.Name
	})
}

func isPreferredVendor(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "anthropic") || strings.Contains(lower, "claude")
}

// BedrockErrorStatus maps a bedrock listing failure to the HTTP status
// and user-facing message of the scoped models route
func BedrockErrorStatus(err error) (int, string) {
	switch classifyBedrockError(err) {
	case bedrockErrCredentials:
		return http.StatusUnauthorized, "AWS credentials not found. Please configure AWS credentials in your environment."
	case bedrockErrAccessDenied:
		return http.StatusForbidden, "Access denied to Amazon Bedrock. Check IAM permissions (bedrock:ListInferenceProfiles required)."
	default:
		return http.StatusInternalServerError, "Failed to list Bedrock models"
	}
}

func formatBytes(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}
	gb := float64(bytes) / (1 << 30)
	if gb >= 1 {
		return fmt.Sprintf("%.1fGB", gb)
	}
	mb := float64(bytes) / (1 << 20)
	return fmt.Sprintf("%.0fMB", mb)
}
