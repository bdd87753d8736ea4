// internal/handlers/tts/handler.go
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freeflow-backend/internal/common/errors"
	httpclient "freeflow-backend/internal/common/http"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/metrics"
)

const HandlerName = "tts-synthesize"

type Handler struct {
	config       *Config
	client       *httpclient.Client
	cache        *DiskCache
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, log logger.Logger) *Handler {
	return &Handler{
		config:       cfg,
		client:       httpclient.NewClient(cfg.Timeout),
		cache:        NewDiskCache(cfg.CacheDir, cfg.CacheMaxSize, cfg.CacheMaxAge, log),
		errorHandler: errors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"handler": HandlerName}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RequestsTotal.WithLabelValues(HandlerName).Inc()
	defer func() {
		metrics.RequestDuration.WithLabelValues(HandlerName).Observe(time.Since(start).Seconds())
	}()

	var request Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.fail(w, errors.NewValidationFailedError("request body is not valid JSON"))
		return
	}

	if strings.TrimSpace(request.Text) == "" {
		h.fail(w, errors.NewValidationFailedError("text is required"))
		return
	}

	if h.config.APIKey == "" {
		h.fail(w, errors.NewTTSNotConfiguredError())
		return
	}

	voiceID := request.VoiceID
	if voiceID == "" {
		voiceID = h.config.DefaultVoice
	}

	cacheKey := CacheKey(request.Text, voiceID, request.VoiceSettings)
	if audio := h.cache.Get(cacheKey); audio != nil {
		metrics.TTSCacheHits.WithLabelValues("hit").Inc()
		h.logger.Debug("cache hit", map[string]interface{}{"key": cacheKey})
		writeAudio(w, audio, "HIT")
		return
	}
	metrics.TTSCacheHits.WithLabelValues("miss").Inc()

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	audio, err := h.synthesize(ctx, request.Text, voiceID, request.VoiceSettings)
	if err != nil {
		h.fail(w, errors.NewTTSSynthesisFailedError(err))
		return
	}

	h.cache.Put(cacheKey, audio)
	writeAudio(w, audio, "MISS")
}

func (h *Handler) synthesize(ctx context.Context, text, voiceID string, settings VoiceSettings) ([]byte, error) {
	payload := synthesizeRequest{}
	payload.Input.Text = text
	payload.Voice.LanguageCode = h.config.LanguageCode
	payload.Voice.Name = voiceID
	payload.AudioConfig.AudioEncoding = "MP3"
	payload.AudioConfig.EffectsProfileID = []string{"large-home-entertainment-class-device"}
	payload.AudioConfig.SpeakingRate = settings.Speed
	payload.AudioConfig.Pitch = settings.Pitch
	payload.AudioConfig.VolumeGainDb = settings.Volume
	if payload.AudioConfig.SpeakingRate == 0 {
		payload.AudioConfig.SpeakingRate = 1.0
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/v1/text:synthesize?key=%s", h.config.BaseURL, h.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("google tts status %d: %s", resp.StatusCode, detail)
	}

	var synthResp synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synthResp); err != nil {
		return nil, fmt.Errorf("decode tts response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(synthResp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}

func writeAudio(w http.ResponseWriter, audio []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("X-Cache", cacheStatus)
	_, _ = w.Write(audio)
}

func (h *Handler) fail(w http.ResponseWriter, stdErr *errors.StandardError) {
	metrics.RequestsFailed.WithLabelValues(HandlerName, string(stdErr.Code)).Inc()
	h.errorHandler.WriteError(w, stdErr)
}
