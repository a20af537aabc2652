package sessions

import (
	"context"
	"errors"
	"time"
)

var SessionNotFoundErr = errors.New("session not found")

type Repo interface {
	Create(ctx context.Context, session *UserSession) error

	// Get returns only active, unexpired sessions; anything else is
	// SessionNotFoundErr.
	Get(ctx context.Context, sessionID string) (*UserSession, error)

	// Touch bumps last_activity_at.
	Touch(ctx context.Context, sessionID string) error

	// ExtendExpiry moves expires_at forward and bumps last_activity_at
	// (sliding expiration).
	ExtendExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error

	// Invalidate marks the session inactive (logout).
	Invalidate(ctx context.Context, sessionID string) error

	InvalidateAllForUser(ctx context.Context, userID string) error

	// DeleteExpiredBefore removes long-dead rows; run periodically.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
