package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/smithy-go"

	"github.com/praveenc/chatnexus/models"
	"github.com/praveenc/chatnexus/pkg"
)

// probeTimeout bounds every health probe
const probeTimeout = 2 * time.Second

// ProviderRegistry holds the fixed provider table and the three backend
// clients, built once at startup and injected into the other logics
type ProviderRegistry struct {
	providers map[models.ProviderType]models.ProviderConfig
	lmstudio  *pkg.OpenAIClient
	ollama    *pkg.OllamaClient
	bedrock   *pkg.BedrockClient
}

func NewProviderRegistry(lmstudio *pkg.OpenAIClient, ollama *pkg.OllamaClient, bedrock *pkg.BedrockClient) *ProviderRegistry {
	providers := models.DefaultProviders()

	// keep the registry metadata in sync with the actual client endpoints
	lm := providers[models.ProviderLMStudio]
	lm.BaseURL = lmstudio.BaseURL()
	providers[models.ProviderLMStudio] = lm

	ol := providers[models.ProviderOllama]
	ol.BaseURL = ollama.BaseURL()
	providers[models.ProviderOllama] = ol

	return &ProviderRegistry{
		providers: providers,
		lmstudio:  lmstudio,
		ollama:    ollama,
		bedrock:   bedrock,
	}
}

// Get returns the connection metadata for a provider
func (r *ProviderRegistry) Get(id models.ProviderType) (models.ProviderConfig, bool) {
	cfg, ok := r.providers[id]
	return cfg, ok
}

// All returns the full provider table
func (r *ProviderRegistry) All() map[models.ProviderType]models.ProviderConfig {
	return r.providers
}

func (r *ProviderRegistry) LMStudio() *pkg.OpenAIClient { return r.lmstudio }
func (r *ProviderRegistry) Ollama() *pkg.OllamaClient   { return r.ollama }
func (r *ProviderRegistry) Bedrock() *pkg.BedrockClient { return r.bedrock }

// Check probes a single provider. It never returns an error: failures
// are reported through the status object.
func (r *ProviderRegistry) Check(ctx context.Context, id models.ProviderType) models.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	switch id {
	case models.ProviderOllama:
		if _, err := r.ollama.ListTags(ctx); err != nil {
			return models.HealthStatus{Status: false, Message: fmt.Sprintf("Ollama is not running on %s", r.ollama.BaseURL())}
		}
		return models.HealthStatus{Status: true, Message: "Ollama is running"}

	case models.ProviderBedrock:
		return r.checkBedrock(ctx)

	case models.ProviderLMStudio:
		fallthrough
	default:
		if _, err := r.lmstudio.ListModels(ctx); err != nil {
			return models.HealthStatus{Status: false, Message: fmt.Sprintf("LM Studio is not running on %s", r.lmstudio.BaseURL())}
		}
		return models.HealthStatus{Status: true, Message: "LM Studio is running"}
	}
}

func (r *ProviderRegistry) checkBedrock(ctx context.Context) models.HealthStatus {
	if r.bedrock == nil {
		return models.HealthStatus{
			Status:  false,
			Message: "AWS credentials not configured. Set AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and AWS_REGION",
		}
	}

	err := r.bedrock.Probe(ctx)
	if err == nil {
		return models.HealthStatus{Status: true, Message: "AWS credentials configured"}
	}

	switch classifyBedrockError(err) {
	case bedrockErrCredentials:
		return models.HealthStatus{
			Status:  false,
			Message: "AWS credentials not configured. Set AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and AWS_REGION",
		}
	case bedrockErrAccessDenied:
		return models.HealthStatus{
			Status:  false,
			Message: "Access denied to Amazon Bedrock. Check IAM permissions (bedrock:ListInferenceProfiles required)",
		}
	default:
		return models.HealthStatus{Status: false, Message: fmt.Sprintf("AWS Bedrock is not reachable: %v", err)}
	}
}

// CheckAll probes every provider concurrently
func (r *ProviderRegistry) CheckAll(ctx context.Context) map[models.ProviderType]models.HealthStatus {
	results := make(map[models.ProviderType]models.HealthStatus, len(r.providers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for id := range r.providers {
		wg.Add(1)
		go func(id models.ProviderType) {
			defer wg.Done()
			status := r.Check(ctx, id)
			mu.Lock()
			results[id] = status
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return results
}

type bedrockErrorKind int

const (
	bedrockErrOther bedrockErrorKind = iota
	bedrockErrCredentials
	bedrockErrAccessDenied
)

// classifyBedrockError separates missing-credential failures from
// authorization failures on AWS API errors
func classifyBedrockError(err error) bedrockErrorKind {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException":
			return bedrockErrAccessDenied
		case "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException":
			return bedrockErrCredentials
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "Access Denied") {
		return bedrockErrAccessDenied
	}
	if strings.Contains(strings.ToLower(msg), "credentials") || strings.Contains(msg, "no EC2 IMDS role found") {
		return bedrockErrCredentials
	}
	return bedrockErrOther
}

// BedrockErrorName reports the AWS error code when one is present,
// matching the errorType field of the bedrock models route
func BedrockErrorName(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "Error"
}
