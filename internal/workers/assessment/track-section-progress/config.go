// internal/workers/assessment/track-section-progress/config.go
package tracksectionprogress

import "time"

type Config struct {
	Timeout      time.Duration
	EnforceOrder bool
	AutoAdvance  bool
	Disabled     bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		EnforceOrder: true,
		AutoAdvance:  true,
	}
}
