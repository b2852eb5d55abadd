package domain

// AIProvider identifies the embedding or generation provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	// AIProviderOllama speaks the OpenAI-compatible API on a self-hosted endpoint
	AIProviderOllama AIProvider = "ollama"
)

// RequiresAPIKey returns whether the provider needs an API key
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// IsValid returns whether the provider is known
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// EmbeddingSettings configures the embedding service
type EmbeddingSettings struct {
	Provider   AIProvider `json:"provider" toml:"provider"`
	Model      string     `json:"model" toml:"model"`
	APIKey     string     `json:"-" toml:"api_key"`
	BaseURL    string     `json:"base_url,omitempty" toml:"base_url"`
	Dimensions int        `json:"dimensions" toml:"dimensions"`
	// RequestsPerSecond limits outbound embedding calls; 0 disables limiting
	RequestsPerSecond float64 `json:"requests_per_second" toml:"requests_per_second"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" || e.Model == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings configures the generation service
type LLMSettings struct {
	Provider    AIProvider `json:"provider" toml:"provider"`
	Model       string     `json:"model" toml:"model"`
	APIKey      string     `json:"-" toml:"api_key"`
	BaseURL     string     `json:"base_url,omitempty" toml:"base_url"`
	Temperature float64    `json:"temperature" toml:"temperature"`
}

// IsConfigured returns true if LLM settings are properly configured
func (l *LLMSettings) IsConfigured() bool {
	if l.Provider == "" || l.Model == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}
