// internal/handlers/health/config.go
package health

import (
	"os"
	"time"

	"freeflow-backend/internal/common/config"
)

type Config struct {
	Environment string
	Version     string
	Commit      string
	PingTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Environment: cfg.App.Environment,
		Version:     cfg.App.Version,
		Commit:      os.Getenv("COMMIT_SHA"),
		PingTimeout: 5 * time.Second,
	}
}
