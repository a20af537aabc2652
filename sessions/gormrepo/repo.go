package sessiongormrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	internalerrors "github.com/permithq/tenantgate/internal/errors"
	"github.com/permithq/tenantgate/sessions"
)

var _ sessions.Repo = (*Repo)(nil)

type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, session *sessions.UserSession) error {
	if session.SessionID == "" {
		session.SessionID = sessions.NewSessionID()
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.Create] %v", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, sessionID string) (*sessions.UserSession, error) {
	var session sessions.UserSession
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND is_active = ? AND expires_at > ?", sessionID, true, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sessions.SessionNotFoundErr
	}
	if err != nil {
		return nil, internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.Get] %v", err)
	}
	return &session, nil
}

func (r *Repo) Touch(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Model(&sessions.UserSession{}).
		Where("session_id = ?", sessionID).
		Update("last_activity_at", time.Now()).Error
	if err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.Touch] %v", err)
	}
	return nil
}

func (r *Repo) ExtendExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&sessions.UserSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"expires_at":       expiresAt,
			"last_activity_at": time.Now(),
		}).Error
	if err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.ExtendExpiry] %v", err)
	}
	return nil
}

func (r *Repo) Invalidate(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Model(&sessions.UserSession{}).
		Where("session_id = ?", sessionID).
		Update("is_active", false).Error
	if err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.Invalidate] %v", err)
	}
	return nil
}

func (r *Repo) InvalidateAllForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Model(&sessions.UserSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
	if err != nil {
		return internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.InvalidateAllForUser] %v", err)
	}
	return nil
}

func (r *Repo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&sessions.UserSession{})
	if result.Error != nil {
		return 0, internalerrors.Wrapf(internalerrors.ErrStorage, "[SessionRepo.DeleteExpiredBefore] %v", result.Error)
	}
	return result.RowsAffected, nil
}
