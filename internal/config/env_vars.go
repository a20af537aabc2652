package config

import "fmt"

type EnvVars struct {
	Port       string `env:"PORT" envDefault:"8080"`
	AppName    string `env:"APP_NAME" envDefault:"Tenant Gate"`
	Env        string `env:"ENV" envDefault:"DEV"`
	BaseDomain string `env:"BASE_DOMAIN" envDefault:"localhost"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

// GetBaseDomain returns the apex domain tenants hang off of
// (e.g. "example.com" so acme.example.com resolves tenant "acme").
func (e EnvVars) GetBaseDomain() string {
	return e.BaseDomain
}
