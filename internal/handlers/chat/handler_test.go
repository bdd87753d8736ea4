// internal/handlers/chat/handler_test.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeflow-backend/internal/common/logger"
)

// ==========================
// Mock Implementations
// ==========================

type mockProvider struct {
	name       string
	completion *Completion
	err        error
	calls      int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Complete(_ context.Context, _ *Request) (*Completion, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.completion, nil
}

func okProvider(name string) *mockProvider {
	return &mockProvider{
		name:       name,
		completion: &Completion{Provider: name, Model: name + "-model", Reply: "hello from " + name},
	}
}

func failingProvider(name string) *mockProvider {
	return &mockProvider{name: name, err: errors.New(name + " unavailable")}
}

func doChat(handler *Handler, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Provider Selection Tests
// ==========================

func TestHandler_Chat_DefaultsToOpenAI(t *testing.T) {
	openai := okProvider(ProviderOpenAI)
	gemini := okProvider(ProviderGemini)
	handler := NewHandlerWithProviders(openai, gemini, logger.NewNoOpLogger())

	rec := doChat(handler, `{"prompt": "hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, ProviderOpenAI, resp.Provider)
	assert.Empty(t, resp.Fallback)
	assert.Equal(t, 1, openai.calls)
	assert.Zero(t, gemini.calls)
}

func TestHandler_Chat_PreferredProviderHonored(t *testing.T) {
	openai := okProvider(ProviderOpenAI)
	gemini := okProvider(ProviderGemini)
	handler := NewHandlerWithProviders(openai, gemini, logger.NewNoOpLogger())

	rec := doChat(handler, `{"prompt": "hello", "provider": "gemini"}`)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ProviderGemini, resp.Provider)
	assert.Zero(t, openai.calls)
}

func TestHandler_Chat_FallbackOnPrimaryFailure(t *testing.T) {
	openai := failingProvider(ProviderOpenAI)
	gemini := okProvider(ProviderGemini)
	handler := NewHandlerWithProviders(openai, gemini, logger.NewNoOpLogger())

	rec := doChat(handler, `{"prompt": "hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ProviderGemini, resp.Provider)
	assert.Equal(t, "openai->gemini", resp.Fallback)
}

func TestHandler_Chat_AllProvidersFailed(t *testing.T) {
	handler := NewHandlerWithProviders(failingProvider(ProviderOpenAI), failingProvider(ProviderGemini), logger.NewNoOpLogger())

	rec := doChat(handler, `{"prompt": "hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var apiErr struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.False(t, apiErr.OK)
	assert.Equal(t, "LLM_ALL_PROVIDERS_FAILED", apiErr.Error)
}

func TestHandler_Chat_MissingPrompt(t *testing.T) {
	handler := NewHandlerWithProviders(okProvider(ProviderOpenAI), okProvider(ProviderGemini), logger.NewNoOpLogger())

	rec := doChat(handler, `{"system": "be nice"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// Provider Wire Format Tests
// ==========================

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 0.7, payload.Temperature)
		require.Len(t, payload.Messages, 2)
		assert.Equal(t, "system", payload.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  hi there  "}},
			},
		})
	}))
	t.Cleanup(server.Close)

	provider := NewOpenAIProvider(ProviderConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, 0)

	completion, err := provider.Complete(context.Background(), &Request{Prompt: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "hi there", completion.Reply)
	assert.Equal(t, "gpt-4o-mini", completion.Model)
}

func TestGeminiProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var payload geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.NotNil(t, payload.SystemInstruction)
		assert.Equal(t, "be terse", payload.SystemInstruction.Parts[0].Text)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": "hi "}, {"text": "there"}},
				}},
			},
		})
	}))
	t.Cleanup(server.Close)

	provider := NewGeminiProvider(ProviderConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		Timeout: 5 * time.Second,
	}, 0)

	completion, err := provider.Complete(context.Background(), &Request{Prompt: "hello", System: "be terse"})

	require.NoError(t, err)
	assert.Equal(t, "hi there", completion.Reply)
}

func TestOpenAIProvider_RetriesOnServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "recovered"}},
			},
		})
	}))
	t.Cleanup(server.Close)

	provider := NewOpenAIProvider(ProviderConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, 2)

	completion, err := provider.Complete(context.Background(), &Request{Prompt: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "recovered", completion.Reply)
	assert.Equal(t, 2, calls)
}

func TestProvider_MissingAPIKey(t *testing.T) {
	provider := NewOpenAIProvider(ProviderConfig{Model: "gpt-4o-mini", Timeout: time.Second}, 0)

	_, err := provider.Complete(context.Background(), &Request{Prompt: "hello"})

	assert.Error(t, err)
}
