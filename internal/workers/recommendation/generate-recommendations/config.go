// internal/workers/recommendation/generate-recommendations/config.go
package generaterecommendations

import "time"

type Config struct {
	Timeout             time.Duration
	AcceptanceThreshold float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:             20 * time.Second,
		AcceptanceThreshold: 3.0,
	}
}
