package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	CorsConfig
	DexConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseDomain() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Dex
	Store
}

// New loads configuration from environment variables. The Dex client
// registration is process-wide and immutable after this point.
func New() (Config, error) {
	c := mainConfig{}
	if err := env.Parse(&c.EnvVars); err != nil {
		return nil, fmt.Errorf("[config.New] parse env vars: %w", err)
	}
	if err := env.Parse(&c.Dex); err != nil {
		return nil, fmt.Errorf("[config.New] parse dex config: %w", err)
	}
	if err := env.Parse(&c.Store); err != nil {
		return nil, fmt.Errorf("[config.New] parse store config: %w", err)
	}
	if err := env.Parse(&c.Cors); err != nil {
		return nil, fmt.Errorf("[config.New] parse cors config: %w", err)
	}
	if err := c.Dex.validate(); err != nil {
		return nil, err
	}
	return c, nil
}
