package models

// Model is the normalized shape every backend's raw model listing maps
// into. Transient: fetched per request, never persisted.
type Model struct {
	Key              string       `json:"key"`
	Name             string       `json:"name"`
	Size             string       `json:"size,omitempty"`
	Architecture     string       `json:"architecture,omitempty"`
	MaxContextLength int          `json:"maxContextLength,omitempty"`
	IsLoaded         bool         `json:"isLoaded,omitempty"`
	Provider         ProviderType `json:"provider"`
}
