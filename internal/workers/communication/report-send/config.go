// internal/workers/communication/report-send/config.go
package reportsend

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	SMSEnabled   bool
	SMSSenderID  string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		FromEmail:    "noreply@example.com",
		SMSEnabled:   false,
		SMSSenderID:  "ASSESS",
	}
}
