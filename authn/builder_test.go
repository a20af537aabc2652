package authn_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/authn"
	"github.com/permithq/tenantgate/authn/statestore"
	"github.com/permithq/tenantgate/orgs"
)

const (
	testDexClientID = "tenantgate"
	testSecret      = "per-org-state-secret"
)

func testDexConfig() authn.DexAppConfig {
	return authn.DexAppConfig{
		ClientID:     testDexClientID,
		ClientSecret: "dex-client-secret",
		IssuerURL:    "https://dex.example.com",
		AuthURL:      "https://dex.example.com/auth",
		TokenURL:     "https://dex.example.com/token",
		RedirectURL:  "https://auth.example.com/auth/callback",
		Scopes:       []string{"openid", "profile", "email"},
	}
}

func testOrg() *orgs.OrgAuthConfig {
	org := &orgs.OrgAuthConfig{
		OrgID:          testOrgID,
		Subdomain:      "acme",
		DexConnectorID: "acme-oidc",
		SessionSecret:  testSecret,
		PKCERequired:   true,
		MaxAgeSeconds:  300,
		Active:         true,
	}
	org.ApplyDefaults()
	return org
}

func setupBuilder(t *testing.T) (*authn.Builder, *statestore.InMemoryRepo) {
	t.Helper()
	states := statestore.NewInMemoryRepo()
	builder, err := authn.NewBuilder(states)
	require.NoError(t, err)
	return builder, states
}

func buildRequest(org *orgs.OrgAuthConfig) authn.AuthorizeRequest {
	return authn.AuthorizeRequest{
		Dex:       testDexConfig(),
		Org:       org,
		ReturnURL: testReturnURL,
		ClientIP:  testClientIP,
		UserAgent: testUserAgent,
	}
}

func TestBuildAuthorizeURL(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	require.Equal(t, "dex.example.com", parsed.Host)
	require.Equal(t, "/auth", parsed.Path)

	query := parsed.Query()
	require.Equal(t, testDexClientID, query.Get("client_id"))
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "openid profile email", query.Get("scope"))
	require.Equal(t, "acme-oidc", query.Get("connector_id"))
	require.Equal(t, "300", query.Get("max_age"))
	require.NotEmpty(t, query.Get("state"))
	require.NotEmpty(t, query.Get("nonce"))
	require.Equal(t, "S256", query.Get("code_challenge_method"))
	require.NotEmpty(t, query.Get("code_challenge"))

	// The client secret must never leak into the authorize URL.
	require.NotContains(t, rawURL, "dex-client-secret")
	require.NotContains(t, rawURL, testSecret)
}

func TestBuildAuthorizeURLWithoutPKCE(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()
	org.PKCERequired = false

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	require.Empty(t, parsed.Query().Get("code_challenge"))
	require.Empty(t, parsed.Query().Get("code_challenge_method"))
}

func TestBuildAuthorizeURLAdditionalParams(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()
	org.AdditionalParams = map[string]string{
		"audience":  "https://api.example.com",
		"client_id": "attacker-client", // must not override the fixed set
	}

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", parsed.Query().Get("audience"))
	require.Equal(t, testDexClientID, parsed.Query().Get("client_id"))
}

func extractState(t *testing.T, rawURL string) string {
	t.Helper()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestRetrieveAuthState(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)
	stateParam := extractState(t, rawURL)

	state, err := builder.RetrieveAuthState(context.Background(), stateParam, org, testClientIP, testUserAgent)
	require.NoError(t, err)
	require.Equal(t, testOrgID, state.OrgID)
	require.Equal(t, testReturnURL, state.ReturnURL)
	require.NotEmpty(t, state.CodeVerifier)
	require.NotEmpty(t, state.Nonce)
}

func TestRetrieveAuthStateTampered(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)
	stateParam := extractState(t, rawURL)

	tampered := []byte(stateParam)
	if tampered[5] == 'A' {
		tampered[5] = 'B'
	} else {
		tampered[5] = 'A'
	}

	_, err = builder.RetrieveAuthState(context.Background(), string(tampered), org, testClientIP, testUserAgent)
	require.ErrorIs(t, err, authn.InvalidStateErr)
}

func TestRetrieveAuthStateWrongOrgSecret(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)
	stateParam := extractState(t, rawURL)

	other := testOrg()
	other.OrgID = "org-2"
	other.SessionSecret = "a-different-secret"

	_, err = builder.RetrieveAuthState(context.Background(), stateParam, other, testClientIP, testUserAgent)
	require.ErrorIs(t, err, authn.InvalidStateErr)
}

func TestRetrieveAuthStateContextDrift(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)
	stateParam := extractState(t, rawURL)

	_, err = builder.RetrieveAuthState(context.Background(), stateParam, org, "198.51.100.99", testUserAgent)
	require.ErrorIs(t, err, authn.ContextMismatchErr)
}

func TestConsumeAuthStateSingleUse(t *testing.T) {
	builder, _ := setupBuilder(t)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)
	stateParam := extractState(t, rawURL)

	_, err = builder.RetrieveAuthState(context.Background(), stateParam, org, testClientIP, testUserAgent)
	require.NoError(t, err)

	require.NoError(t, builder.ConsumeAuthState(context.Background(), stateParam, org))

	_, err = builder.RetrieveAuthState(context.Background(), stateParam, org, testClientIP, testUserAgent)
	require.ErrorIs(t, err, authn.StateNotFoundErr)
}

// faultyStateRepo stores states normally but fails every lookup, the way an
// unreachable backend would.
type faultyStateRepo struct {
	*statestore.InMemoryRepo
	retrieveErr error
}

func (r *faultyStateRepo) Retrieve(ctx context.Context, stateID string) (*authn.AuthState, error) {
	return nil, r.retrieveErr
}

func TestRetrieveAuthStateStoreUnavailable(t *testing.T) {
	states := &faultyStateRepo{
		InMemoryRepo: statestore.NewInMemoryRepo(),
		retrieveErr:  errors.New("redis: connection refused"),
	}
	builder, err := authn.NewBuilder(states)
	require.NoError(t, err)
	org := testOrg()

	rawURL, err := builder.BuildAuthorizeURL(context.Background(), buildRequest(org))
	require.NoError(t, err)
	stateParam := extractState(t, rawURL)

	_, err = builder.RetrieveAuthState(context.Background(), stateParam, org, testClientIP, testUserAgent)
	require.ErrorIs(t, err, authn.StorageErr)
	require.NotErrorIs(t, err, authn.StateNotFoundErr)
}
