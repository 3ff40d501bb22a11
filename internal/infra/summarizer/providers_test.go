package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsumm/internal/config"
	"docsumm/internal/domain/entity"
	"docsumm/internal/resilience/retry"
)

/* ───────── Claude ───────── */

func newTestClaude(t *testing.T, handler http.HandlerFunc) (*Claude, *fakeMetrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClaude(ClaudeConfig{APIKey: "sk-ant-test", BaseURL: srv.URL})
	require.NoError(t, err)
	m := newFakeMetrics()
	c.guard = fastGuard("claude", m)
	return c, m
}

func claudeMessage(text string) map[string]any {
	return map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4-5-20250929",
		"content":       []map[string]any{{"type": "text", "text": text}},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
	}
}

func TestClaude_Summarize(t *testing.T) {
	var prompt string
	c, m := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		var body struct {
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 1)
		prompt = body.Messages[0].Content[0].Text
		writeJSON(t, w, http.StatusOK, claudeMessage("  Raft keeps replicas consistent.  "))
	})

	summary, err := c.Summarize(context.Background(), longText(), entity.SummaryOptions{MaxLength: 300})
	require.NoError(t, err)

	assert.Contains(t, prompt, "at most 300 characters")
	assert.Contains(t, prompt, "Consensus protocols")
	assert.Equal(t, "Raft keeps replicas consistent.", summary.Text)
	assert.Equal(t, MethodAI, summary.Method)
	assert.Equal(t, string(anthropic.ModelClaudeSonnet4_5_20250929), summary.Model)
	assert.Equal(t, 1, m.attempts["claude/success"])
}

func TestClaude_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, m := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "invalid_request_error", "message": "bad request"},
		})
	})

	_, err := c.Summarize(context.Background(), longText(), entity.SummaryOptions{})
	require.Error(t, err)

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, m.attempts["claude/failure"])
}

func TestClaudeConfig_Validate(t *testing.T) {
	_, err := NewClaude(ClaudeConfig{})
	assert.ErrorContains(t, err, "api key cannot be empty")
}

/* ───────── OpenAI ───────── */

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) (*OpenAI, *fakeMetrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	m := newFakeMetrics()
	o.guard = fastGuard("openai", m)
	return o, m
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func TestOpenAI_Summarize(t *testing.T) {
	c, m := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, chatCompletion(strings.Repeat("x", 120)))
	})

	summary, err := c.Summarize(context.Background(), longText(), entity.SummaryOptions{MaxLength: 100})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", summary.Model)
	assert.Equal(t, 120, summary.SummaryLength)
	assert.Equal(t, 1, m.exceeded["openai"])
}

func TestOpenAI_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"message": "overloaded", "type": "server_error"},
			})
			return
		}
		writeJSON(t, w, http.StatusOK, chatCompletion("Recovered."))
	})

	summary, err := c.Summarize(context.Background(), longText(), entity.SummaryOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", summary.Text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	c, _ := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		resp := chatCompletion("")
		resp["choices"] = []any{}
		writeJSON(t, w, http.StatusOK, resp)
	})

	_, err := c.Summarize(context.Background(), longText(), entity.SummaryOptions{})
	assert.ErrorContains(t, err, "empty response")
}

/* ───────── Factory ───────── */

func TestNewFromConfig(t *testing.T) {
	cfg := config.DefaultSummarizerConfig()
	cfg.Providers = []config.ProviderConfig{
		{Name: config.ProviderClaude, APIKey: "sk-ant"},
		{Name: config.ProviderOpenAI, APIKey: "sk"},
		{Name: config.ProviderHuggingFace},
	}

	chain, err := NewFromConfig(&cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "openai", "huggingface", "local"}, chain.Providers())
}

func TestNewFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider config.ProviderConfig
		wantErr  string
	}{
		{"unknown provider", config.ProviderConfig{Name: "gemini"}, "unknown provider"},
		{"missing key", config.ProviderConfig{Name: config.ProviderClaude}, "api key cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultSummarizerConfig()
			cfg.Providers = []config.ProviderConfig{tt.provider}

			_, err := NewFromConfig(&cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
