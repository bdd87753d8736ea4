// internal/handlers/chat/providers.go
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "freeflow-backend/internal/common/http"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider completes a prompt against one upstream LLM.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Completion, error)
}

// doWithRetry posts the request with exponential backoff on transport errors
// and non-OK statuses.
func doWithRetry(ctx context.Context, client *httpclient.Client, maxRetries int, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := client.DoWithContext(ctx, req)
		if err == nil {
			if resp.StatusCode == http.StatusOK {
				return resp, nil
			}
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, detail)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// --- OpenAI ---

type OpenAIProvider struct {
	config     ProviderConfig
	client     *httpclient.Client
	maxRetries int
}

func NewOpenAIProvider(cfg ProviderConfig, maxRetries int) *OpenAIProvider {
	return &OpenAIProvider{config: cfg, client: httpclient.NewClient(cfg.Timeout), maxRetries: maxRetries}
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Complete(ctx context.Context, chatReq *Request) (*Completion, error) {
	if p.config.APIKey == "" {
		return nil, fmt.Errorf("openai API key is not configured")
	}

	model := chatReq.Model
	if model == "" {
		model = p.config.Model
	}

	system := chatReq.System
	if system == "" {
		system = "You are a helpful assistant."
	}

	payload := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: chatReq.Prompt},
		},
		Temperature: 0.7,
	}
	body, _ := json.Marshal(payload)

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := doWithRetry(ctx, p.client, p.maxRetries, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &Completion{
		Provider: ProviderOpenAI,
		Model:    model,
		Reply:    strings.TrimSpace(apiResp.Choices[0].Message.Content),
	}, nil
}

// --- Gemini ---

type GeminiProvider struct {
	config     ProviderConfig
	client     *httpclient.Client
	maxRetries int
}

func NewGeminiProvider(cfg ProviderConfig, maxRetries int) *GeminiProvider {
	return &GeminiProvider{config: cfg, client: httpclient.NewClient(cfg.Timeout), maxRetries: maxRetries}
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Complete(ctx context.Context, chatReq *Request) (*Completion, error) {
	if p.config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	model := chatReq.Model
	if model == "" {
		model = p.config.Model
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: chatReq.Prompt}}},
		},
	}
	if chatReq.System != "" {
		payload.SystemInstruction = &geminiContent{
			Role:  "system",
			Parts: []geminiPart{{Text: chatReq.System}},
		}
	}
	body, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.config.BaseURL, url.PathEscape(model), p.config.APIKey)

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := doWithRetry(ctx, p.client, p.maxRetries, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(apiResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var reply strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		reply.WriteString(part.Text)
	}

	return &Completion{
		Provider: ProviderGemini,
		Model:    model,
		Reply:    strings.TrimSpace(reply.String()),
	}, nil
}
