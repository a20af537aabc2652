package config

import "time"

type StoreConfig interface {
	GetDatabaseDSN() string
	GetRedisURL() string
	GetRedisTimeout() time.Duration
	GetFGAAPIURL() string
}

type Store struct {
	DatabaseDSN  string        `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/tenantgate?sslmode=disable"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisTimeout time.Duration `env:"REDIS_TIMEOUT" envDefault:"5s"`
	FGAAPIURL    string        `env:"FGA_API_URL"`
}

var _ StoreConfig = Store{}

func (s Store) GetDatabaseDSN() string {
	return s.DatabaseDSN
}

func (s Store) GetRedisURL() string {
	return s.RedisURL
}

// GetRedisTimeout bounds every state-store round trip so a dead cache
// fails the login attempt instead of hanging the request.
func (s Store) GetRedisTimeout() time.Duration {
	return s.RedisTimeout
}

// GetFGAAPIURL returns the fine-grained authorization endpoint. Empty
// means the FGA proxy routes report the service as unavailable.
func (s Store) GetFGAAPIURL() string {
	return s.FGAAPIURL
}
