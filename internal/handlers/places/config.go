// internal/handlers/places/config.go
package places

import (
	"time"

	"freeflow-backend/internal/common/config"
)

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	handler := config.GetHandlerConfig(cfg, HandlerName)
	return &Config{
		Index:   cfg.Database.Elasticsearch.Index,
		Timeout: config.GetDuration(handler.Timeout),
	}
}
