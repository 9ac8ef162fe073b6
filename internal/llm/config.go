package llm

import (
	"os"
	"strconv"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	// Zero means no deadline beyond the caller's context.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/gpt-4o-mini"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// Credential env vars, one per vendor.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAnthropicKey  = "ANTHROPIC_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-4o-mini",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. Credentials come from the vendors'
// standard variables; everything else is under the PARLEY_ prefix.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("PARLEY_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	cfg.OpenAI.APIKey = os.Getenv(EnvOpenAIKey)
	if m := os.Getenv("PARLEY_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("PARLEY_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	cfg.Anthropic.APIKey = os.Getenv(EnvAnthropicKey)
	if m := os.Getenv("PARLEY_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	cfg.Gemini.APIKey = os.Getenv(EnvGeminiKey)
	if m := os.Getenv("PARLEY_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	cfg.OpenRouter.APIKey = os.Getenv(EnvOpenRouterKey)
	if m := os.Getenv("PARLEY_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if v := os.Getenv("PARLEY_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("PARLEY_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// CredentialEnv returns the env var holding the selected provider's key,
// or "" for providers that need none.
func (c Config) CredentialEnv() string {
	switch c.Provider {
	case "openai":
		return EnvOpenAIKey
	case "anthropic":
		return EnvAnthropicKey
	case "gemini":
		return EnvGeminiKey
	case "openrouter":
		return EnvOpenRouterKey
	}
	return ""
}

// Model returns the configured model name for the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "openai":
		return c.OpenAI.Model
	case "anthropic":
		return c.Anthropic.Model
	case "gemini":
		return c.Gemini.Model
	case "openrouter":
		return c.OpenRouter.Model
	case "mock":
		return "mock"
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
// A missing key is reported as *ErrMissingCredential.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return &ErrUnknownProvider{Name: c.Provider}
	}
	if key == "" {
		return &ErrMissingCredential{Provider: c.Provider, EnvVar: c.CredentialEnv()}
	}
	return nil
}
