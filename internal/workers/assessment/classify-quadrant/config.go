// internal/workers/assessment/classify-quadrant/config.go
package classifyquadrant

import "time"

type Config struct {
	Timeout  time.Duration
	ScaleMin float64
	ScaleMax float64
	Midpoint float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		ScaleMin: 1,
		ScaleMax: 5,
		Midpoint: 3.0,
	}
}
