package orgs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/orgs"
)

func TestApplyDefaults(t *testing.T) {
	org := &orgs.OrgAuthConfig{
		OrgID:          "org-1",
		Subdomain:      "acme",
		DexConnectorID: "acme-oidc",
	}
	org.ApplyDefaults()

	require.Equal(t, int64(orgs.DefaultMaxAgeSeconds), org.MaxAgeSeconds)
	require.Equal(t, "session_id", org.SessionConfig.CookieName)
	require.Equal(t, orgs.SameSiteLax, org.SessionConfig.SameSite)
	require.Equal(t, int64(86400), org.SessionConfig.MaxAgeSeconds)
	require.Equal(t, 0.5, org.SessionConfig.ExtensionThreshold)
}

func TestApplyDefaultsKeepsOverrides(t *testing.T) {
	org := &orgs.OrgAuthConfig{
		OrgID:         "org-1",
		MaxAgeSeconds: 600,
		SessionConfig: orgs.SessionConfig{
			CookieName: "acme_session",
			SameSite:   orgs.SameSiteStrict,
		},
	}
	org.ApplyDefaults()

	require.Equal(t, int64(600), org.MaxAgeSeconds)
	require.Equal(t, "acme_session", org.SessionConfig.CookieName)
	require.Equal(t, orgs.SameSiteStrict, org.SessionConfig.SameSite)
}

func TestSessionSecretsNotSerialized(t *testing.T) {
	org := &orgs.OrgAuthConfig{
		OrgID:         "org-1",
		SessionSecret: "state-secret",
	}
	org.ApplyDefaults()
	org.SessionConfig.CookieSigningSecret = "cookie-secret"

	raw := mustJSON(t, org)
	require.NotContains(t, raw, "state-secret")
	require.NotContains(t, raw, "cookie-secret")
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
