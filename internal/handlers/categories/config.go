// internal/handlers/categories/config.go
package categories

import (
	"time"

	"freeflow-backend/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	handler := config.GetHandlerConfig(cfg, HandlerName)
	return &Config{
		Timeout: config.GetDuration(handler.Timeout),
	}
}
