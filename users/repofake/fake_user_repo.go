package userrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
	"github.com/permithq/tenantgate/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users map[string]*users.User
	lock  sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
	}
}

func (ur *FakeUserRepo) FindByProvider(_ context.Context, orgID, providerUserID, authProvider string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	for _, u := range ur.users {
		if u.OrgID == orgID && u.ProviderUserID == providerUserID && u.AuthProvider == authProvider && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (ur *FakeUserRepo) FindByID(_ context.Context, userID string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	u, ok := ur.users[userID]
	if !ok || !u.IsActive {
		return nil, internalerrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	if user.UserID == "" {
		user.UserID = users.NewUserID()
	}
	now := time.Now()
	user.IsActive = true
	user.CreatedAt = now
	user.LastLoginAt = now
	user.UpdatedAt = now
	copied := *user
	ur.users[user.UserID] = &copied
	return nil
}

func (ur *FakeUserRepo) UpdateTokens(_ context.Context, userID string, update users.TokenUpdate) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	u, ok := ur.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	now := time.Now()
	u.AccessToken = update.AccessToken
	u.RefreshToken = update.RefreshToken
	u.IDToken = update.IDToken
	u.TokenExpiresAt = update.TokenExpiresAt
	u.LastLoginAt = now
	u.UpdatedAt = now
	return nil
}

func (ur *FakeUserRepo) UpdateProfile(_ context.Context, userID string, update users.ProfileUpdate) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()
	u, ok := ur.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	if update.Name != "" {
		u.Name = update.Name
	}
	if update.DisplayName != "" {
		u.DisplayName = update.DisplayName
	}
	if update.Picture != "" {
		u.Picture = update.Picture
	}
	u.UpdatedAt = time.Now()
	return nil
}
