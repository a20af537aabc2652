package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a local user record mapped from one identity-provider identity.
// (OrgID, ProviderUserID, AuthProvider) is unique: the same provider
// subject always resolves to the same local user within a tenant.
type User struct {
	UserID string `json:"user_id" gorm:"primaryKey;column:user_id"`

	Email       string `json:"email" gorm:"index"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Picture     string `json:"picture,omitempty"`

	// Connector that authenticated this identity (e.g. "auth0", "google")
	AuthProvider string `json:"auth_provider" gorm:"uniqueIndex:idx_users_provider_identity;index:idx_users_provider"`

	// The provider's subject claim
	ProviderUserID string `json:"provider_user_id" gorm:"uniqueIndex:idx_users_provider_identity;index:idx_users_provider"`

	OrgID string `json:"org_id" gorm:"uniqueIndex:idx_users_provider_identity;index"`

	// Latest provider tokens; encrypt at rest in production
	AccessToken    string     `json:"-"`
	RefreshToken   string     `json:"-"`
	IDToken        string     `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	IsActive bool `json:"is_active"`

	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// TokenUpdate carries refreshed provider tokens after a login.
type TokenUpdate struct {
	AccessToken    string
	RefreshToken   string
	IDToken        string
	TokenExpiresAt *time.Time
}

// ProfileUpdate refreshes profile attributes. Empty fields leave the
// stored values untouched, so absence in new claims never erases data.
type ProfileUpdate struct {
	Name        string
	DisplayName string
	Picture     string
}

// NewUserID generates an identifier for a freshly created user.
func NewUserID() string {
	return "usr_" + uuid.NewString()
}
