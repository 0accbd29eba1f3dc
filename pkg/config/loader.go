package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Load parses environment variables into a fresh value of type T, using
// `env` tags on its fields to define the mappings.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	cfg, err := config.Load[Config]()
func Load[T any]() (*T, error) {
	cfg, err := env.ParseAs[T]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
