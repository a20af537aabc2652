package authn

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
)

const (
	// stateIDLength is the byte length of generated identifiers; 32 bytes
	// gives 256 bits of entropy, well past the 128-bit floor.
	stateIDLength = 32

	// verifierLength produces a 43-character base64url PKCE verifier,
	// the RFC 7636 minimum.
	verifierLength = 32
)

// AuthState is the full server-side context of one pending login attempt.
// It lives only in the ephemeral state store, keyed by an opaque
// identifier, and is bound 1:1 to a single authorization request.
type AuthState struct {
	OrgID         string `json:"org_id"`
	UserSessionID string `json:"user_session_id"`

	// Nonce issued at authorization time. The exact same value must be
	// supplied to identity-token verification at callback time.
	Nonce string `json:"nonce"`

	// PKCE code verifier; its S256 challenge goes in the authorize URL
	CodeVerifier string `json:"code_verifier"`

	ReturnURL string `json:"return_url"`

	CreatedAt int64 `json:"created_at"`
	ExpiresAt int64 `json:"expires_at"`

	CSRFToken string `json:"csrf_token,omitempty"`

	// Requester fingerprint captured when the flow started
	IPAddress     string `json:"ip_address"`
	UserAgentHash string `json:"user_agent_hash"`
}

// NewAuthState creates the state for a fresh login attempt, generating
// the nonce, PKCE verifier and CSRF token from crypto/rand.
func NewAuthState(orgID, returnURL, ipAddress, userAgent string, ttlSeconds int64) *AuthState {
	now := time.Now().Unix()
	return &AuthState{
		OrgID:         orgID,
		UserSessionID: GenerateRandomString(stateIDLength),
		Nonce:         GenerateRandomString(verifierLength),
		CodeVerifier:  GenerateRandomString(verifierLength),
		ReturnURL:     returnURL,
		CreatedAt:     now,
		ExpiresAt:     now + ttlSeconds,
		CSRFToken:     GenerateRandomString(verifierLength),
		IPAddress:     ipAddress,
		UserAgentHash: HashUserAgent(userAgent),
	}
}

// IsExpired reports whether the state has passed its expiry. A state
// created with a zero TTL is expired from the start.
func (s *AuthState) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

// Validate checks the state against the callback's request context.
// Expiry is checked here as defense in depth beyond the store TTL, since
// TTL granularity or clock skew can let a just-expired record linger.
func (s *AuthState) Validate(ipAddress, userAgent string) error {
	if s.IsExpired() {
		return errors.Wrap(StateExpiredErr, "[AuthState.Validate]")
	}
	if s.IPAddress != ipAddress {
		return errors.Wrap(ContextMismatchErr, "[AuthState.Validate] ip address")
	}
	if s.UserAgentHash != HashUserAgent(userAgent) {
		return errors.Wrap(ContextMismatchErr, "[AuthState.Validate] user agent")
	}
	return nil
}

// GenerateRandomString creates a random base64url string from n bytes of
// crypto/rand entropy.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// GenerateCodeChallenge derives the S256 PKCE challenge for a verifier.
func GenerateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// HashUserAgent stores a hash rather than the raw user agent so the
// ephemeral store never carries identifiable client strings.
func HashUserAgent(userAgent string) string {
	hash := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(hash[:])
}
