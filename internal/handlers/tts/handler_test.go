// internal/handlers/tts/handler_test.go
package tts

import (
	"encoding/base64"
	"encoding/json"
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
// Test Helper Functions
// ==========================

// fakeGoogleTTS returns a server that answers text:synthesize with fixed audio
// and counts calls.
func fakeGoogleTTS(t *testing.T, audio []byte, calls *int) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "/v1/text:synthesize", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var payload synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "MP3", payload.AudioConfig.AudioEncoding)

		_ = json.NewEncoder(w).Encode(synthesizeResponse{
			AudioContent: base64.StdEncoding.EncodeToString(audio),
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestHandler(t *testing.T, baseURL, apiKey string) *Handler {
	return NewHandler(&Config{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		LanguageCode: "pl-PL",
		DefaultVoice: "pl-PL-Wavenet-D",
		Timeout:      5 * time.Second,
		CacheDir:     t.TempDir(),
		CacheMaxSize: 1024 * 1024,
		CacheMaxAge:  time.Hour,
	}, logger.NewNoOpLogger())
}

func doSynthesize(handler *Handler, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/tts", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Synthesize_MissThenHit(t *testing.T) {
	audio := []byte("fake-mp3-audio")
	calls := 0
	server := fakeGoogleTTS(t, audio, &calls)
	handler := newTestHandler(t, server.URL, "test-key")

	payload := `{"text": "dzień dobry"}`

	first := doSynthesize(handler, payload)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "audio/mpeg", first.Header().Get("Content-Type"))
	assert.Equal(t, audio, first.Body.Bytes())
	assert.Equal(t, 1, calls)

	second := doSynthesize(handler, payload)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, audio, second.Body.Bytes())
	assert.Equal(t, 1, calls)
}

func TestHandler_Synthesize_SettingsChangeBustsCache(t *testing.T) {
	calls := 0
	server := fakeGoogleTTS(t, []byte("audio"), &calls)
	handler := newTestHandler(t, server.URL, "test-key")

	doSynthesize(handler, `{"text": "dzień dobry"}`)
	doSynthesize(handler, `{"text": "dzień dobry", "voice_settings": {"speed": 1.5}}`)

	assert.Equal(t, 2, calls)
}

func TestHandler_Synthesize_MissingText(t *testing.T) {
	handler := newTestHandler(t, "http://unused", "test-key")

	rec := doSynthesize(handler, `{"text": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Synthesize_MissingAPIKey(t *testing.T) {
	handler := newTestHandler(t, "http://unused", "")

	rec := doSynthesize(handler, `{"text": "dzień dobry"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "TTS_NOT_CONFIGURED", apiErr.Error)
}

func TestHandler_Synthesize_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)
	handler := newTestHandler(t, server.URL, "test-key")

	rec := doSynthesize(handler, `{"text": "dzień dobry"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "TTS_SYNTHESIS_FAILED", apiErr.Error)
}
