package authn

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/permithq/tenantgate/orgs"
)

// StateRepo is the subset of the state store the builder needs. Declared
// here so the builder depends on behavior, not on a concrete store.
// Retrieve reports an absent or expired entry with StateNotFoundErr;
// any other failure is a store fault.
type StateRepo interface {
	Store(ctx context.Context, state *AuthState) (string, error)
	Retrieve(ctx context.Context, stateID string) (*AuthState, error)
	Invalidate(ctx context.Context, stateID string) error
}

// AuthorizeRequest carries everything needed to start one login attempt.
type AuthorizeRequest struct {
	Dex       DexAppConfig
	Org       *orgs.OrgAuthConfig
	ReturnURL string
	ClientIP  string
	UserAgent string
}

// Builder composes outbound authorization URLs and validates the state
// that comes back on the callback.
type Builder struct {
	states StateRepo
}

func NewBuilder(states StateRepo) (*Builder, error) {
	if states == nil {
		return nil, errors.New("[NewBuilder] state repo is required")
	}
	return &Builder{states: states}, nil
}

// BuildAuthorizeURL creates and stores the auth state, signs its store
// identifier with the organization's secret, and assembles the provider
// authorization URL. The returned URL's state cannot be forged without
// the tenant secret, and its authorization code cannot be redeemed
// without the PKCE verifier held server-side.
func (b *Builder) BuildAuthorizeURL(ctx context.Context, req AuthorizeRequest) (string, error) {
	maxAge := req.Org.MaxAgeSeconds
	if maxAge <= 0 {
		maxAge = orgs.DefaultMaxAgeSeconds
	}

	state := NewAuthState(req.Org.OrgID, req.ReturnURL, req.ClientIP, req.UserAgent, maxAge)

	authURL, err := url.Parse(req.Dex.AuthURL)
	if err != nil {
		return "", errors.Wrapf(ConfigurationErr, "[Builder.BuildAuthorizeURL] parse auth url: %v", err)
	}

	stateID, err := b.states.Store(ctx, state)
	if err != nil {
		return "", errors.Wrapf(StorageErr, "[Builder.BuildAuthorizeURL] store state: %v", err)
	}

	stateParam, err := SignState(stateID, req.Org.SessionSecret).Encode()
	if err != nil {
		return "", errors.Wrap(err, "[Builder.BuildAuthorizeURL] encode state")
	}

	query := authURL.Query()
	query.Set("client_id", req.Dex.ClientID)
	query.Set("redirect_uri", req.Dex.RedirectURL)
	query.Set("response_type", "code")
	query.Set("scope", strings.Join(req.Dex.Scopes, " "))
	query.Set("state", stateParam)
	query.Set("nonce", state.Nonce)

	if req.Org.PKCERequired {
		query.Set("code_challenge", GenerateCodeChallenge(state.CodeVerifier))
		query.Set("code_challenge_method", "S256")
	}

	// Dex routes the login through this connector
	query.Set("connector_id", req.Org.DexConnectorID)

	if req.Org.Auth0OrganizationID != "" {
		query.Set("organization", req.Org.Auth0OrganizationID)
	}

	if req.Org.Prompt != "" {
		query.Set("prompt", req.Org.Prompt)
	}
	if maxAge > 0 {
		query.Set("max_age", strconv.FormatInt(maxAge, 10))
	}

	// Tenant overrides win only where the fixed set has not spoken
	for key, value := range req.Org.AdditionalParams {
		if query.Get(key) == "" {
			query.Set(key, value)
		}
	}

	authURL.RawQuery = query.Encode()
	return authURL.String(), nil
}

// RetrieveAuthState verifies the callback's state parameter and returns
// the stored login context. The entry is NOT invalidated here: the caller
// consumes it after a successful token exchange, so a transient exchange
// failure leaves one retry within the TTL.
func (b *Builder) RetrieveAuthState(ctx context.Context, stateParam string, org *orgs.OrgAuthConfig, clientIP, userAgent string) (*AuthState, error) {
	signed, err := DecodeState(stateParam, org.SessionSecret)
	if err != nil {
		return nil, errors.Wrapf(InvalidStateErr, "[Builder.RetrieveAuthState] %v", err)
	}

	state, err := b.states.Retrieve(ctx, signed.StateID)
	if err != nil {
		// An unreachable store is a system fault, not a rejected login.
		if !errors.Is(err, StateNotFoundErr) {
			return nil, errors.Wrapf(StorageErr, "[Builder.RetrieveAuthState] %v", err)
		}
		return nil, errors.Wrap(err, "[Builder.RetrieveAuthState]")
	}

	if err := state.Validate(clientIP, userAgent); err != nil {
		return nil, err
	}

	if state.OrgID != org.OrgID {
		return nil, errors.Wrap(OrgMismatchErr, "[Builder.RetrieveAuthState]")
	}

	return state, nil
}

// ConsumeAuthState invalidates the state after a successful login,
// enforcing single use. Idempotent.
func (b *Builder) ConsumeAuthState(ctx context.Context, stateParam string, org *orgs.OrgAuthConfig) error {
	signed, err := DecodeState(stateParam, org.SessionSecret)
	if err != nil {
		return errors.Wrapf(InvalidStateErr, "[Builder.ConsumeAuthState] %v", err)
	}
	return b.states.Invalidate(ctx, signed.StateID)
}
