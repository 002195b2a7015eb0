package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
)

func TestGenerate(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Five "},{"type":"tool_use"},{"type":"text","text":"days."}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(Config{APIKey: "secret", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())

	out, err := svc.Generate(context.Background(), "QUESTION: how long?", driven.GenerateOptions{System: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "Five days.", out)

	assert.Equal(t, "be brief", got.System)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow"}}`))
	}))
	defer srv.Close()

	svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
	_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrRateLimited)
}

func TestGenerate_NoText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty content", `{"content":[],"stop_reason":"end_turn"}`, "no text content"},
		{"only tool use", `{"content":[{"type":"tool_use"}],"stop_reason":"tool_use"}`, "no text content"},
		{"refusal", `{"content":[],"stop_reason":"refusal"}`, "declined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL})
			_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestGenerate_PassesOptions(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Cut"}],"stop_reason":"max_tokens"}`))
	}))
	defer srv.Close()

	svc, _ := NewLLMService(Config{APIKey: "k", BaseURL: srv.URL, Model: "claude-test"})
	out, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{
		MaxTokens:   16,
		Temperature: 0.3,
		StopWords:   []string{"END"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Cut", out)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 16, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	assert.Equal(t, []string{"END"}, got.StopSeqs)
}
