// internal/handlers/routeorder/config.go
package routeorder

import (
	"time"

	"freeflow-backend/internal/common/config"
)

type Config struct {
	Timeout             time.Duration
	NotificationEnabled bool
}

func LoadConfig(cfg *config.Config) *Config {
	handler := config.GetHandlerConfig(cfg, HandlerName)
	return &Config{
		Timeout:             config.GetDuration(handler.Timeout),
		NotificationEnabled: cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled,
	}
}
