package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema_PracticeFeedback(t *testing.T) {
	s := geminiSchema(practiceSchema.Definition)

	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, genai.TypeArray, s.Properties["alternatives"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["alternatives"].Items.Type)
	require.NotNil(t, s.Properties["next_prompt"].MinLength)
	assert.EqualValues(t, 1, *s.Properties["next_prompt"].MinLength)
	assert.Equal(t, []string{"corrected", "explanation", "alternatives", "next_prompt"}, s.Required)
	assert.Equal(t, s.Required, s.PropertyOrdering)
}

func TestGeminiConfig_JSONObjectModeSendsNoSchema(t *testing.T) {
	cfg := geminiConfig(practiceRequest())

	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Nil(t, cfg.ResponseSchema)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Contains(t, cfg.SystemInstruction.Parts[0].Text, "single JSON object")
	assert.EqualValues(t, 512, cfg.MaxOutputTokens)
	assert.Nil(t, cfg.Temperature)
}

func TestGeminiConfig_StrictModeSendsSchema(t *testing.T) {
	strict := *practiceSchema
	strict.Mode = StrictSchema
	req := practiceRequest()
	req.Schema = &strict
	req.Temperature = 0.3

	cfg := geminiConfig(req)

	require.NotNil(t, cfg.ResponseSchema)
	assert.Equal(t, genai.TypeObject, cfg.ResponseSchema.Type)
	assert.Equal(t, req.System, cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.3, *cfg.Temperature, 0.001)
}

func TestGeminiContents_Roles(t *testing.T) {
	got := geminiContents([]Message{
		{Role: RoleUser, Content: "Start the session."},
		{Role: RoleAssistant, Content: "¿Cómo te llamas?"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
}

func TestGeminiError_ValueAPIError(t *testing.T) {
	tests := []struct {
		code   int
		target any
	}{
		{429, new(*ErrRateLimit)},
		{403, new(*ErrRejected)},
		{503, new(*ErrProviderUnavailable)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			err := geminiError(fmt.Errorf("generate: %w", genai.APIError{Code: tt.code}))
			assert.True(t, errors.As(err, tt.target), "got %T", err)
		})
	}
}

func TestGeminiModelDefault(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("", geminiModels, defaultGeminiModel))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-2.5-flash", geminiModels, defaultGeminiModel))
}
