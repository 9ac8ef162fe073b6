package feedback

// Config controls the LLM request the Service sends.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAlternatives caps the alternative phrasings kept from a response.
	MaxAlternatives int
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       512,
		Temperature:     0.7,
		MaxAlternatives: 2,
	}
}
