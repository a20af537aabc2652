package sessionrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/permithq/tenantgate/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[string]*sessions.UserSession
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]*sessions.UserSession),
	}
}

func (sr *FakeSessionRepo) Create(_ context.Context, session *sessions.UserSession) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if session.SessionID == "" {
		session.SessionID = sessions.NewSessionID()
	}
	copied := *session
	sr.sessions[session.SessionID] = &copied
	return nil
}

func (sr *FakeSessionRepo) Get(_ context.Context, sessionID string) (*sessions.UserSession, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	s, ok := sr.sessions[sessionID]
	if !ok || !s.IsActive || !time.Now().Before(s.ExpiresAt) {
		return nil, sessions.SessionNotFoundErr
	}
	copied := *s
	return &copied, nil
}

func (sr *FakeSessionRepo) Touch(_ context.Context, sessionID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	s, ok := sr.sessions[sessionID]
	if !ok {
		return sessions.SessionNotFoundErr
	}
	s.LastActivityAt = time.Now()
	return nil
}

func (sr *FakeSessionRepo) ExtendExpiry(_ context.Context, sessionID string, expiresAt time.Time) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	s, ok := sr.sessions[sessionID]
	if !ok {
		return sessions.SessionNotFoundErr
	}
	s.ExpiresAt = expiresAt
	s.LastActivityAt = time.Now()
	return nil
}

func (sr *FakeSessionRepo) Invalidate(_ context.Context, sessionID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if s, ok := sr.sessions[sessionID]; ok {
		s.IsActive = false
	}
	return nil
}

func (sr *FakeSessionRepo) InvalidateAllForUser(_ context.Context, userID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	for _, s := range sr.sessions {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (sr *FakeSessionRepo) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	var removed int64
	for id, s := range sr.sessions {
		if s.ExpiresAt.Before(cutoff) {
			delete(sr.sessions, id)
			removed++
		}
	}
	return removed, nil
}
