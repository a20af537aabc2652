package orgs

// OrgAuthConfig is the per-organization OAuth wiring. Each organization
// maps to a subdomain and selects a Dex connector; the session secret
// signs the OAuth state parameter and is rotatable independently of the
// cookie signing secret.
type OrgAuthConfig struct {
	OrgID     string `json:"org_id" gorm:"primaryKey;column:org_id"`
	Subdomain string `json:"subdomain" gorm:"uniqueIndex"`

	// Dex connector to route this organization's logins through
	// (e.g. "auth0", "google")
	DexConnectorID string `json:"dex_connector_id"`

	// Auth0 organization, only set when the connector is Auth0
	Auth0OrganizationID string `json:"auth0_organization_id,omitempty"`

	// Secret for signing the state parameter. Must be long enough for
	// HMAC-SHA256 (32 bytes or more recommended). Never logged.
	SessionSecret string `json:"-"`

	SessionConfig SessionConfig `json:"session_config" gorm:"embedded;embeddedPrefix:session_"`

	// PKCE should always stay required; the knob exists for legacy connectors
	PKCERequired bool `json:"pkce_required"`

	// Max age of an authentication request in seconds
	MaxAgeSeconds int64 `json:"max_age_seconds"`

	// Optional OIDC prompt directive ("login", "consent", "none")
	Prompt string `json:"prompt,omitempty"`

	// Tenant-configured extra authorization parameters, appended after the
	// fixed parameter set so they cannot override it
	AdditionalParams map[string]string `json:"additional_params,omitempty" gorm:"serializer:json"`

	Active bool `json:"active"`
}

const (
	DefaultMaxAgeSeconds = 300
)

// SessionConfig is the organization-level session cookie policy.
type SessionConfig struct {
	CookieName   string `json:"cookie_name"`
	CookieDomain string `json:"cookie_domain,omitempty"`
	Secure       bool   `json:"secure"`
	HTTPOnly     bool   `json:"http_only"`

	SameSite SameSitePolicy `json:"same_site"`

	MaxAgeSeconds int64 `json:"max_age_seconds"`

	// Secret for signing session cookies, rotatable separately from the
	// OAuth state secret. Never logged.
	CookieSigningSecret string `json:"-"`

	// Sliding expiration: extend the session once the configured fraction
	// of its lifetime has elapsed
	ExtensionEnabled   bool    `json:"extension_enabled"`
	ExtensionThreshold float64 `json:"extension_threshold"`
}

type SameSitePolicy string

const (
	SameSiteStrict SameSitePolicy = "strict"
	SameSiteLax    SameSitePolicy = "lax"
	SameSiteNone   SameSitePolicy = "none"
)

// DefaultSessionConfig returns the session policy applied when an
// organization has not overridden it.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName:         "session_id",
		Secure:             true,
		HTTPOnly:           true,
		SameSite:           SameSiteLax,
		MaxAgeSeconds:      86400,
		ExtensionEnabled:   true,
		ExtensionThreshold: 0.5,
	}
}

// ApplyDefaults fills zero-valued policy knobs without touching anything
// the organization has set explicitly.
func (o *OrgAuthConfig) ApplyDefaults() {
	if o.MaxAgeSeconds == 0 {
		o.MaxAgeSeconds = DefaultMaxAgeSeconds
	}
	def := DefaultSessionConfig()
	if o.SessionConfig.CookieName == "" {
		o.SessionConfig.CookieName = def.CookieName
	}
	if o.SessionConfig.SameSite == "" {
		o.SessionConfig.SameSite = def.SameSite
	}
	if o.SessionConfig.MaxAgeSeconds == 0 {
		o.SessionConfig.MaxAgeSeconds = def.MaxAgeSeconds
	}
	if o.SessionConfig.ExtensionThreshold == 0 {
		o.SessionConfig.ExtensionThreshold = def.ExtensionThreshold
	}
}

func (OrgAuthConfig) TableName() string {
	return "organizations"
}
