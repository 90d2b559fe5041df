package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return p
}

func writeGemini(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func TestGeminiProvider_FirstCandidateOnly(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeGemini(w, map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"role": "model",
						"parts": []map[string]any{
							{"text": "Question: Who won?\n"},
							{"text": "A. Them"},
						},
					},
					"finishReason": "STOP",
				},
				{
					"content": map[string]any{
						"role":  "model",
						"parts": []map[string]any{{"text": "ignored"}},
					},
				},
			},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 30,
				"totalTokenCount":      42,
			},
		})
	})

	resp, err := p.Generate(context.Background(), UserPrompt("", "Generate a question."))
	require.NoError(t, err)
	assert.Equal(t, "Question: Who won?\nA. Them", resp.Text)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeGemini(w, map[string]any{"candidates": []map[string]any{}})
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "x"))
	require.Error(t, err)
	assert.True(t, IsKind(err, EmptyResponse), "got %v", err)
}

func TestGeminiProvider_ServerError(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 500, "message": "boom", "status": "INTERNAL"},
		})
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "x"))
	require.Error(t, err)
	assert.True(t, IsKind(err, TransportFailure), "got %v", err)
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
