package config

import (
	"errors"
	"strings"
)

// DexConfig is the process-wide OAuth client registration shared by all
// organizations. A single Dex client serves every tenant; per-tenant
// behavior comes from the organization config store instead.
type DexConfig interface {
	GetDexClientID() string
	GetDexClientSecret() string
	GetDexIssuerURL() string
	GetDexAuthURL() string
	GetDexTokenURL() string
	GetDexRedirectURL() string
	GetDexScopes() []string
}

type Dex struct {
	ClientID     string   `env:"DEX_CLIENT_ID"`
	ClientSecret string   `env:"DEX_CLIENT_SECRET"`
	IssuerURL    string   `env:"DEX_ISSUER_URL"`
	AuthURL      string   `env:"DEX_AUTH_URL"`
	TokenURL     string   `env:"DEX_TOKEN_URL"`
	RedirectURL  string   `env:"DEX_REDIRECT_URL"`
	Scopes       []string `env:"DEX_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
}

var _ DexConfig = Dex{}

func (d Dex) validate() error {
	if d.ClientID == "" || d.ClientSecret == "" {
		return errors.New("[config] DEX_CLIENT_ID and DEX_CLIENT_SECRET are required")
	}
	if d.IssuerURL == "" {
		return errors.New("[config] DEX_ISSUER_URL is required")
	}
	if d.RedirectURL == "" {
		return errors.New("[config] DEX_REDIRECT_URL is required")
	}
	return nil
}

func (d Dex) GetDexClientID() string {
	return d.ClientID
}

func (d Dex) GetDexClientSecret() string {
	return d.ClientSecret
}

func (d Dex) GetDexIssuerURL() string {
	return d.IssuerURL
}

// GetDexAuthURL returns the authorization endpoint, derived from the
// issuer when not set explicitly.
func (d Dex) GetDexAuthURL() string {
	if d.AuthURL != "" {
		return d.AuthURL
	}
	return strings.TrimSuffix(d.IssuerURL, "/") + "/auth"
}

func (d Dex) GetDexTokenURL() string {
	if d.TokenURL != "" {
		return d.TokenURL
	}
	return strings.TrimSuffix(d.IssuerURL, "/") + "/token"
}

func (d Dex) GetDexRedirectURL() string {
	return d.RedirectURL
}

func (d Dex) GetDexScopes() []string {
	return d.Scopes
}
