package models

// ProviderType identifies one of the supported chat backends
type ProviderType string

const (
	ProviderLMStudio ProviderType = "lmstudio"
	ProviderOllama   ProviderType = "ollama"
	ProviderBedrock  ProviderType = "bedrock"
)

// ParseProvider maps a raw identifier to a known provider type
func ParseProvider(s string) (ProviderType, bool) {
	switch ProviderType(s) {
	case ProviderLMStudio, ProviderOllama, ProviderBedrock:
		return ProviderType(s), true
	}
	return "", false
}

// ProviderConfig holds static connection metadata for a provider
type ProviderConfig struct {
	ID           ProviderType `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	BaseURL      string       `json:"baseURL"`
	DefaultPort  int          `json:"defaultPort,omitempty"`
	RequiresAuth bool         `json:"requiresAuth,omitempty"`
}

// DefaultProviders returns the fixed provider table. Base URLs may be
// overridden from config before the registry is built.
func DefaultProviders() map[ProviderType]ProviderConfig {
	return map[ProviderType]ProviderConfig{
		ProviderLMStudio: {
			ID:          ProviderLMStudio,
			Name:        "LM Studio",
			Description: "Local models via LM Studio",
			BaseURL:     "http://localhost:1234/v1",
			DefaultPort: 1234,
		},
		ProviderOllama: {
			ID:          ProviderOllama,
			Name:        "Ollama",
			Description: "Local models via Ollama",
			BaseURL:     "http://localhost:11434/api",
			DefaultPort: 11434,
		},
		ProviderBedrock: {
			ID:           ProviderBedrock,
			Name:         "AWS Bedrock",
			Description:  "Cloud models via AWS Bedrock",
			BaseURL:      "AWS Bedrock API",
			RequiresAuth: true,
		},
	}
}

// HealthStatus is the result of a provider reachability probe
type HealthStatus struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}
