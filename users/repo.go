package users

import "context"

type UserRepo interface {
	// FindByProvider resolves the unique (org, provider subject, connector)
	// identity; returns nil without error when no active user matches.
	FindByProvider(ctx context.Context, orgID, providerUserID, authProvider string) (*User, error)

	FindByID(ctx context.Context, userID string) (*User, error)

	Create(ctx context.Context, user *User) error

	// UpdateTokens refreshes tokens and bumps last_login_at/updated_at.
	UpdateTokens(ctx context.Context, userID string, update TokenUpdate) error

	// UpdateProfile applies only the non-empty fields of update.
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
}
