package authn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/authn"
)

const (
	testOrgID     = "org-1"
	testReturnURL = "/dashboard"
	testClientIP  = "203.0.113.7"
	testUserAgent = "Mozilla/5.0 test-browser"
	testTTL       = int64(300)
)

func TestNewAuthState(t *testing.T) {
	state := authn.NewAuthState(testOrgID, testReturnURL, testClientIP, testUserAgent, testTTL)

	require.Equal(t, testOrgID, state.OrgID)
	require.Equal(t, testReturnURL, state.ReturnURL)
	require.Equal(t, testClientIP, state.IPAddress)
	require.NotEmpty(t, state.Nonce)
	require.NotEmpty(t, state.CodeVerifier)
	require.NotEmpty(t, state.CSRFToken)
	require.Equal(t, state.CreatedAt+testTTL, state.ExpiresAt)

	// User agents are stored hashed, never verbatim.
	require.NotEqual(t, testUserAgent, state.UserAgentHash)
	require.Equal(t, authn.HashUserAgent(testUserAgent), state.UserAgentHash)
}

func TestNewAuthStateUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		state := authn.NewAuthState(testOrgID, testReturnURL, testClientIP, testUserAgent, testTTL)
		require.False(t, seen[state.Nonce], "nonce collision")
		require.False(t, seen[state.CodeVerifier], "verifier collision")
		seen[state.Nonce] = true
		seen[state.CodeVerifier] = true
	}
}

func TestStateExpiry(t *testing.T) {
	state := authn.NewAuthState(testOrgID, testReturnURL, testClientIP, testUserAgent, testTTL)
	require.False(t, state.IsExpired())

	zeroTTL := authn.NewAuthState(testOrgID, testReturnURL, testClientIP, testUserAgent, 0)
	require.True(t, zeroTTL.IsExpired())
}

func TestStateValidateContextBinding(t *testing.T) {
	state := authn.NewAuthState(testOrgID, testReturnURL, testClientIP, testUserAgent, testTTL)

	require.NoError(t, state.Validate(testClientIP, testUserAgent))

	err := state.Validate("198.51.100.1", testUserAgent)
	require.ErrorIs(t, err, authn.ContextMismatchErr)

	err = state.Validate(testClientIP, "another-agent")
	require.ErrorIs(t, err, authn.ContextMismatchErr)
}

func TestStateValidateExpired(t *testing.T) {
	state := authn.NewAuthState(testOrgID, testReturnURL, testClientIP, testUserAgent, 0)

	err := state.Validate(testClientIP, testUserAgent)
	require.ErrorIs(t, err, authn.StateExpiredErr)
}

func TestGenerateCodeChallenge(t *testing.T) {
	// RFC 7636 appendix B test vector.
	challenge := authn.GenerateCodeChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	require.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", challenge)
}
