// internal/workers/catalog/search-use-cases/config.go
package searchusecases

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "use-cases",
	}
}
