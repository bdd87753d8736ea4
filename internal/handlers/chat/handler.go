// internal/handlers/chat/handler.go
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"freeflow-backend/internal/common/errors"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/metrics"
)

const HandlerName = "chat-completion"

type Handler struct {
	openai       Provider
	gemini       Provider
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, log logger.Logger) *Handler {
	return NewHandlerWithProviders(
		NewOpenAIProvider(cfg.OpenAI, cfg.MaxRetries),
		NewGeminiProvider(cfg.Gemini, cfg.MaxRetries),
		log,
	)
}

// NewHandlerWithProviders wires explicit provider implementations, used by tests.
func NewHandlerWithProviders(openai, gemini Provider, log logger.Logger) *Handler {
	return &Handler{
		openai:       openai,
		gemini:       gemini,
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

	if strings.TrimSpace(request.Prompt) == "" {
		h.fail(w, errors.NewValidationFailedError("prompt is required"))
		return
	}

	primary, secondary := h.pickProviders(request.Provider)

	completion, fallback, err := h.complete(r.Context(), primary, secondary, &request)
	if err != nil {
		h.fail(w, errors.NewLLMAllProvidersFailedError(err.Error()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{
		OK:       true,
		Provider: completion.Provider,
		Model:    completion.Model,
		Reply:    completion.Reply,
		Fallback: fallback,
	})
}

// pickProviders resolves the preferred provider order. OpenAI is the default.
func (h *Handler) pickProviders(preferred string) (Provider, Provider) {
	if strings.ToLower(preferred) == ProviderGemini {
		return h.gemini, h.openai
	}
	return h.openai, h.gemini
}

// complete tries the primary provider and falls back to the secondary on any
// failure. The returned fallback string names the transition, for example
// "openai->gemini".
func (h *Handler) complete(ctx context.Context, primary, secondary Provider, request *Request) (*Completion, string, error) {
	completion, primaryErr := primary.Complete(ctx, request)
	if primaryErr == nil {
		return completion, "", nil
	}

	h.logger.Warn("primary provider failed, falling back", map[string]interface{}{
		"primary":   primary.Name(),
		"secondary": secondary.Name(),
		"error":     primaryErr.Error(),
	})
	metrics.LLMProviderFallbacks.WithLabelValues(primary.Name(), secondary.Name()).Inc()

	completion, secondaryErr := secondary.Complete(ctx, request)
	if secondaryErr != nil {
		return nil, "", fmt.Errorf("%s: %v; %s: %v", primary.Name(), primaryErr, secondary.Name(), secondaryErr)
	}

	return completion, primary.Name() + "->" + secondary.Name(), nil
}

func (h *Handler) fail(w http.ResponseWriter, stdErr *errors.StandardError) {
	metrics.RequestsFailed.WithLabelValues(HandlerName, string(stdErr.Code)).Inc()
	h.errorHandler.WriteError(w, stdErr)
}
