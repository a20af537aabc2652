package statestore

import (
	"context"

	"github.com/permithq/tenantgate/authn"
)

// NotFoundErr signals an absent or TTL-expired state. Absence is a normal
// outcome of the login flow (abandoned attempts simply age out), so
// callers treat it as authentication failure, not a system fault. Any
// other error from a Repo means the store itself misbehaved.
var NotFoundErr = authn.StateNotFoundErr

// Repo is the short-TTL keyed store holding pending login state. Each
// Store call mints a fresh identifier, so entries are never contended
// across attempts and no in-process locking is needed around them.
type Repo interface {
	// Store writes the state under a new random identifier with a TTL of
	// expires_at - created_at and returns the identifier.
	Store(ctx context.Context, state *authn.AuthState) (string, error)

	// Retrieve returns NotFoundErr for unknown or expired identifiers.
	Retrieve(ctx context.Context, stateID string) (*authn.AuthState, error)

	// RetrieveAndInvalidate atomically consumes the entry where the
	// backing store supports it, closing the double-submit window.
	RetrieveAndInvalidate(ctx context.Context, stateID string) (*authn.AuthState, error)

	// Invalidate is idempotent; deleting an absent key is not an error.
	Invalidate(ctx context.Context, stateID string) error
}
