package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider("test-key", "gpt-4o-mini", newTestServer(t, handler))
	require.NoError(t, err)
	return p
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

var scoreSchema = &Schema{
	Name: "test-score",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"score"},
		"properties": map[string]any{
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		},
	},
}

func TestOpenAIProvider_TextReply(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("Practice two DP problems today.", "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:      "You are PrepPulse AI assistant.",
		Messages:    UserPrompt("What should I do today?"),
		Temperature: 0.4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Practice two DP problems today.", resp.Content)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, 65, resp.Usage.TotalTokens)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Nil(t, got.ResponseFormat)
	assert.Equal(t, defaultMaxTokens, got.MaxCompletionTokens)
}

func TestOpenAIProvider_JSONReplyIsValidated(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("```json\n{\"score\": 72}\n```", "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		Messages: UserPrompt("Score this as JSON."),
		Format:   FormatJSON,
		Schema:   scoreSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 72}`, resp.Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
}

func TestOpenAIProvider_SchemaViolation(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"score": 140}`, "stop"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Format: FormatJSON, Schema: scoreSchema})
	var invalid *ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, `{"score": 140}`, invalid.Content)
}

func TestOpenAIProvider_TruncatedJSON(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"score": 7`, "length"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Format: FormatJSON})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "tokens", "message": "Rate limit exceeded", "code": "rate_limit_exceeded"},
		})
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestOpenAIProvider_ServerErrorIsNotRetried(t *testing.T) {
	calls := 0
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"type": "server_error", "message": "boom"}})
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 1, calls)
}

func TestOpenAISpeaker(t *testing.T) {
	var got openai.CreateSpeechRequest
	url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		io.WriteString(w, "ID3-fake-mp3")
	})
	s := NewOpenAISpeaker("test-key", url, "", "")

	audio, mime, err := s.Speak(context.Background(), "Hello there")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-fake-mp3"), audio)
	assert.Equal(t, "audio/mpeg", mime)
	assert.Equal(t, openai.TTSModelGPT4oMini, got.Model)
	assert.Equal(t, openai.VoiceAlloy, got.Voice)
	assert.Equal(t, openai.SpeechResponseFormatMp3, got.ResponseFormat)
}

func TestOpenAISpeaker_Failure(t *testing.T) {
	url := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	s := NewOpenAISpeaker("test-key", url, "gpt-4o-mini-tts", "alloy")

	_, _, err := s.Speak(context.Background(), "Hello")
	assert.Error(t, err)
}

func TestMockProvider(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockProvider(
		MockResponse{Content: `{"score": 10}`},
		MockResponse{Content: "not json"},
		MockResponse{Err: boom},
	)

	resp, err := m.Generate(context.Background(), Request{Format: FormatJSON, Schema: scoreSchema})
	require.NoError(t, err)
	assert.Equal(t, `{"score": 10}`, resp.Content)

	_, err = m.Generate(context.Background(), Request{Format: FormatJSON})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	_, err = m.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)

	_, err = m.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 4, m.CallCount())
}
