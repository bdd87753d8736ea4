// internal/handlers/tts/config.go
package tts

import (
	"time"

	"freeflow-backend/internal/common/config"
)

type Config struct {
	BaseURL      string
	APIKey       string
	LanguageCode string
	DefaultVoice string
	Timeout      time.Duration

	CacheDir     string
	CacheMaxSize int64
	CacheMaxAge  time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		BaseURL:      cfg.APIs.GoogleTTS.BaseURL,
		APIKey:       cfg.APIs.GoogleTTS.APIKey,
		LanguageCode: cfg.APIs.GoogleTTS.LanguageCode,
		DefaultVoice: cfg.APIs.GoogleTTS.DefaultVoice,
		Timeout:      config.GetDuration(cfg.APIs.GoogleTTS.Timeout),
		CacheDir:     cfg.TTSCache.Dir,
		CacheMaxSize: cfg.TTSCache.MaxSizeBytes,
		CacheMaxAge:  time.Duration(cfg.TTSCache.MaxAge) * time.Second,
	}
}
