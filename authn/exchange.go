package authn

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// TokenSet holds the provider tokens from a successful exchange.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	RawIDToken   string
	Expiry       time.Time
}

// IdentityClaims are the claims of a verified identity token. Nothing
// constructs these except the exchanger's verification path, so a caller
// holding them can rely on signature, issuer, audience, expiry and nonce
// all having been checked.
type IdentityClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	Picture           string `json:"picture"`
	PreferredUsername string `json:"preferred_username"`
	Nonce             string `json:"nonce"`
}

// Exchanger redeems authorization codes at the provider's token endpoint
// and verifies the returned identity token. Provider metadata discovery
// is cached per issuer the way the server caches per-tenant OIDC config.
type Exchanger struct {
	dex        DexAppConfig
	httpClient *http.Client

	provider     *oidc.Provider
	providerLock sync.Mutex
}

type ExchangerOption func(*Exchanger)

// WithHTTPClient overrides the HTTP client used for discovery, exchange
// and JWKS fetches (primarily for testing).
func WithHTTPClient(client *http.Client) ExchangerOption {
	return func(e *Exchanger) {
		e.httpClient = client
	}
}

func NewExchanger(dex DexAppConfig, options ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		dex:        dex,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Exchange redeems the authorization code with the stored PKCE verifier
// and fully verifies the identity token: signature against the provider's
// published keys, issuer, audience, expiry, and exact equality of the
// nonce with the one issued at authorization time.
func (e *Exchanger) Exchange(ctx context.Context, code, codeVerifier, expectedNonce string) (*TokenSet, *IdentityClaims, error) {
	ctx = oidc.ClientContext(ctx, e.httpClient)

	provider, err := e.discoverProvider(ctx)
	if err != nil {
		return nil, nil, err
	}

	oauthConfig := &oauth2.Config{
		ClientID:     e.dex.ClientID,
		ClientSecret: e.dex.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  e.dex.RedirectURL,
		Scopes:       e.dex.Scopes,
	}

	token, err := oauthConfig.Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, nil, errors.Wrapf(TokenExchangeFailedErr, "[Exchanger.Exchange] %v", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, nil, errors.Wrap(MissingIdentityTokenErr, "[Exchanger.Exchange]")
	}

	idToken, err := provider.Verifier(&oidc.Config{ClientID: e.dex.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, errors.Wrapf(IdentityTokenInvalidErr, "[Exchanger.Exchange] verify: %v", err)
	}

	var claims IdentityClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, nil, errors.Wrapf(IdentityTokenInvalidErr, "[Exchanger.Exchange] claims: %v", err)
	}

	// The nonce must be the one issued at authorization time, carried
	// through server-side state. Never a freshly generated value.
	if claims.Nonce != expectedNonce {
		return nil, nil, errors.Wrap(IdentityTokenInvalidErr, "[Exchanger.Exchange] nonce mismatch")
	}

	tokens := &TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		RawIDToken:   rawIDToken,
		Expiry:       token.Expiry,
	}
	return tokens, &claims, nil
}

func (e *Exchanger) discoverProvider(ctx context.Context) (*oidc.Provider, error) {
	e.providerLock.Lock()
	defer e.providerLock.Unlock()

	if e.provider != nil {
		return e.provider, nil
	}

	provider, err := oidc.NewProvider(ctx, e.dex.IssuerURL)
	if err != nil {
		return nil, errors.Wrapf(TokenExchangeFailedErr, "[Exchanger.discoverProvider] %v", err)
	}
	e.provider = provider
	return provider, nil
}
