package sessions_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/orgs"
	"github.com/permithq/tenantgate/sessions"
)

const cookieSecret = "test-cookie-signing-secret"

func TestSignAndVerifyCookie(t *testing.T) {
	sessionID := sessions.NewSessionID()
	value := sessions.SignSessionID(sessionID, cookieSecret)

	require.True(t, strings.HasPrefix(value, sessionID+"."))

	got, err := sessions.VerifyCookieValue(value, cookieSecret)
	require.NoError(t, err)
	require.Equal(t, sessionID, got)
}

func TestVerifyCookieWrongSecret(t *testing.T) {
	value := sessions.SignSessionID(sessions.NewSessionID(), cookieSecret)

	_, err := sessions.VerifyCookieValue(value, "another-secret")
	require.ErrorIs(t, err, sessions.InvalidCookieErr)
}

func TestVerifyCookieTamperedID(t *testing.T) {
	sessionID := sessions.NewSessionID()
	value := sessions.SignSessionID(sessionID, cookieSecret)

	forged := "ses_forged" + value[strings.LastIndex(value, "."):]
	_, err := sessions.VerifyCookieValue(forged, cookieSecret)
	require.ErrorIs(t, err, sessions.InvalidCookieErr)
}

func TestVerifyCookieMalformed(t *testing.T) {
	for _, value := range []string{"", "no-dot", ".sigonly", "idonly."} {
		_, err := sessions.VerifyCookieValue(value, cookieSecret)
		require.ErrorIs(t, err, sessions.InvalidCookieErr, "value %q", value)
	}
}

func TestSessionIDWithDots(t *testing.T) {
	// The split is on the LAST dot so ids containing dots still verify.
	value := sessions.SignSessionID("ses_ab.cd.ef", cookieSecret)
	got, err := sessions.VerifyCookieValue(value, cookieSecret)
	require.NoError(t, err)
	require.Equal(t, "ses_ab.cd.ef", got)
}

func TestBuildCookiePolicy(t *testing.T) {
	cfg := orgs.DefaultSessionConfig()
	cfg.CookieSigningSecret = cookieSecret
	cfg.CookieDomain = "acme.example.com"
	cfg.SameSite = orgs.SameSiteStrict

	cookie := sessions.BuildCookie("ses_123", cfg)
	require.Equal(t, cfg.CookieName, cookie.Name)
	require.Equal(t, "acme.example.com", cookie.Domain)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	got, err := sessions.VerifyCookieValue(cookie.Value, cookieSecret)
	require.NoError(t, err)
	require.Equal(t, "ses_123", got)
}

func TestClearCookie(t *testing.T) {
	cfg := orgs.DefaultSessionConfig()
	cfg.CookieSigningSecret = cookieSecret

	cookie := sessions.ClearCookie(cfg)
	require.Empty(t, cookie.Value)
	require.Equal(t, -1, cookie.MaxAge)
}
