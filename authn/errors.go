package authn

import "errors"

var (
	// Signed state decode/verify failures, terminal for the request
	DecodeErr           = errors.New("malformed state parameter")
	InvalidSignatureErr = errors.New("invalid state signature")

	// Callback validation failures. All of these surface to the client as
	// the same generic message; the distinction exists for logging only.
	InvalidStateErr    = errors.New("invalid state")
	StateNotFoundErr   = errors.New("auth state not found or expired")
	StateExpiredErr    = errors.New("auth state expired")
	ContextMismatchErr = errors.New("request context mismatch")
	OrgMismatchErr     = errors.New("organization mismatch")

	// Token exchange failures
	TokenExchangeFailedErr  = errors.New("token exchange failed")
	MissingIdentityTokenErr = errors.New("no id_token in token response")
	IdentityTokenInvalidErr = errors.New("id token verification failed")

	ConfigurationErr = errors.New("invalid authorization configuration")
	StorageErr       = errors.New("auth state storage failure")
)
