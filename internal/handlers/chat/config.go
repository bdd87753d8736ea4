// internal/handlers/chat/config.go
package chat

import (
	"time"

	"freeflow-backend/internal/common/config"
)

type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Config struct {
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	MaxRetries int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		OpenAI: ProviderConfig{
			BaseURL: cfg.APIs.OpenAI.BaseURL,
			APIKey:  cfg.APIs.OpenAI.APIKey,
			Model:   cfg.APIs.OpenAI.Model,
			Timeout: config.GetDuration(cfg.APIs.OpenAI.Timeout),
		},
		Gemini: ProviderConfig{
			BaseURL: cfg.APIs.Gemini.BaseURL,
			APIKey:  cfg.APIs.Gemini.APIKey,
			Model:   cfg.APIs.Gemini.Model,
			Timeout: config.GetDuration(cfg.APIs.Gemini.Timeout),
		},
		MaxRetries: 2,
	}
}
