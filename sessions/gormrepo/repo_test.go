package sessiongormrepo_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/permithq/tenantgate/sessions"
	sessiongormrepo "github.com/permithq/tenantgate/sessions/gormrepo"
)

func setupRepo(t *testing.T) *sessiongormrepo.Repo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gateway.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sessions.UserSession{}))
	return sessiongormrepo.New(db)
}

func testSession(userID string, ttl time.Duration) *sessions.UserSession {
	now := time.Now()
	return &sessions.UserSession{
		SessionID:      sessions.NewSessionID(),
		UserID:         userID,
		OrgID:          "org-1",
		IsActive:       true,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	session := testSession("usr_1", time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.Equal(t, "usr_1", got.UserID)
}

func TestGetExpired(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	session := testSession("usr_1", -time.Minute)
	require.NoError(t, repo.Create(ctx, session))

	_, err := repo.Get(ctx, session.SessionID)
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
}

func TestInvalidate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	session := testSession("usr_1", time.Hour)
	require.NoError(t, repo.Create(ctx, session))
	require.NoError(t, repo.Invalidate(ctx, session.SessionID))

	_, err := repo.Get(ctx, session.SessionID)
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
}

func TestInvalidateAllForUser(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first := testSession("usr_1", time.Hour)
	second := testSession("usr_1", time.Hour)
	other := testSession("usr_2", time.Hour)
	for _, s := range []*sessions.UserSession{first, second, other} {
		require.NoError(t, repo.Create(ctx, s))
	}

	require.NoError(t, repo.InvalidateAllForUser(ctx, "usr_1"))

	_, err := repo.Get(ctx, first.SessionID)
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
	_, err = repo.Get(ctx, second.SessionID)
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)

	got, err := repo.Get(ctx, other.SessionID)
	require.NoError(t, err)
	require.Equal(t, "usr_2", got.UserID)
}

func TestExtendExpiry(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	session := testSession("usr_1", time.Hour)
	require.NoError(t, repo.Create(ctx, session))

	newExpiry := time.Now().Add(48 * time.Hour)
	require.NoError(t, repo.ExtendExpiry(ctx, session.SessionID, newExpiry))

	got, err := repo.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.WithinDuration(t, newExpiry, got.ExpiresAt, time.Second)
}

func TestDeleteExpiredBefore(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	expired := testSession("usr_1", -time.Hour)
	live := testSession("usr_1", time.Hour)
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	removed, err := repo.DeleteExpiredBefore(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	got, err := repo.Get(ctx, live.SessionID)
	require.NoError(t, err)
	require.Equal(t, live.SessionID, got.SessionID)
}
