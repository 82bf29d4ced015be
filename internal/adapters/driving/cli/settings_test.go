package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 4, parseNumber("4", 10))
	assert.Equal(t, 10, parseNumber("", 10))
	assert.Equal(t, 10, parseNumber("0", 10))
	assert.Equal(t, 10, parseNumber("x", 10))
}

func TestSettingsShowCmd(t *testing.T) {
	_, fs, _ := setupTestServices(t)
	fs.settings.Completion = domain.CompletionSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}
	fs.validateErr = errors.New("embedding provider not configured")

	out, _, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Completion]")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "Batch size: 10")
	assert.Contains(t, out, "Spreadsheet: resultados.xlsx")
	assert.Contains(t, out, "Warning: embedding provider not configured")
}

func TestSettingsPipelineCmd_OnlyChangedFlags(t *testing.T) {
	_, fs, _ := setupTestServices(t)

	out, _, err := execute(t, "settings", "pipeline", "--batch-size", "4")

	require.NoError(t, err)
	assert.Equal(t, [3]int{domain.DefaultChunkSize, 4, domain.DefaultTopK}, fs.pipeline)
	assert.Contains(t, out, "batch size 4")
}

func TestSettingsEmbeddingCmd_Interactive(t *testing.T) {
	_, fs, _ := setupTestServices(t)
	prev := settingsInput
	settingsInput = strings.NewReader("1\n\n")
	t.Cleanup(func() { settingsInput = prev })

	out, _, err := execute(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, fs.settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", fs.settings.Embedding.Model)
	assert.Contains(t, out, "Embedding provider configured")
}

func TestSettingsCompletionCmd_RequiresKey(t *testing.T) {
	setupTestServices(t)
	t.Setenv(domain.AIProviderAnthropic.APIKeyEnv(), "")
	prev := settingsInput
	settingsInput = strings.NewReader("3\n\n\n")
	t.Cleanup(func() { settingsInput = prev })

	_, _, err := execute(t, "settings", "completion")

	assert.EqualError(t, err, "API key is required for this provider")
}
