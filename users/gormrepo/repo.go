package usergormrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
	"github.com/permithq/tenantgate/users"
)

var _ users.UserRepo = (*Repo)(nil)

type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) FindByProvider(ctx context.Context, orgID, providerUserID, authProvider string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND provider_user_id = ? AND auth_provider = ? AND is_active = ?",
			orgID, providerUserID, authProvider, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internalerrors.Wrapf(internalerrors.ErrStorage, "[UserRepo.FindByProvider] %v", err)
	}
	return &user, nil
}

func (r *Repo) FindByID(ctx context.Context, userID string) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalerrors.ErrNotFound
	}
	if err != nil {
		return nil, internalerrors.Wrapf(internalerrors.ErrStorage, "[UserRepo.FindByID] %v", err)
	}
	return &user, nil
}

func (r *Repo) Create(ctx context.Context, user *users.User) error {
	if user.UserID == "" {
		user.UserID = users.NewUserID()
	}
	now := time.Now()
	user.IsActive = true
	user.CreatedAt = now
	user.LastLoginAt = now
	user.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[UserRepo.Create] %v", err)
	}
	return nil
}

func (r *Repo) UpdateTokens(ctx context.Context, userID string, update users.TokenUpdate) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&users.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"access_token":     update.AccessToken,
			"refresh_token":    update.RefreshToken,
			"id_token":         update.IDToken,
			"token_expires_at": update.TokenExpiresAt,
			"last_login_at":    now,
			"updated_at":       now,
		}).Error
	if err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[UserRepo.UpdateTokens] %v", err)
	}
	return nil
}

func (r *Repo) UpdateProfile(ctx context.Context, userID string, update users.ProfileUpdate) error {
	fields := map[string]any{"updated_at": time.Now()}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.DisplayName != "" {
		fields["display_name"] = update.DisplayName
	}
	if update.Picture != "" {
		fields["picture"] = update.Picture
	}
	err := r.db.WithContext(ctx).
		Model(&users.User{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
	if err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[UserRepo.UpdateProfile] %v", err)
	}
	return nil
}
