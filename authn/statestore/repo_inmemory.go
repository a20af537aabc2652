package statestore

import (
	"context"
	"sync"
	"time"

	"github.com/permithq/tenantgate/authn"
)

// InMemoryRepo holds pending login state in process memory. Only suitable
// for tests and single-instance demos: multiple gateway instances must
// share state through the Redis implementation instead.
type InMemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
}

type inMemoryEntry struct {
	state     authn.AuthState
	expiresAt time.Time
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		entries: make(map[string]inMemoryEntry),
	}
}

func (r *InMemoryRepo) Store(_ context.Context, state *authn.AuthState) (string, error) {
	stateID := authn.GenerateRandomString(16)
	ttl := time.Duration(state.ExpiresAt-state.CreatedAt) * time.Second

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[stateID] = inMemoryEntry{
		state:     *state,
		expiresAt: time.Now().Add(ttl),
	}
	return stateID, nil
}

func (r *InMemoryRepo) Retrieve(_ context.Context, stateID string) (*authn.AuthState, error) {
	r.mu.RLock()
	entry, ok := r.entries[stateID]
	r.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, NotFoundErr
	}
	state := entry.state
	return &state, nil
}

func (r *InMemoryRepo) RetrieveAndInvalidate(_ context.Context, stateID string) (*authn.AuthState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[stateID]
	if !ok {
		return nil, NotFoundErr
	}
	delete(r.entries, stateID)
	if time.Now().After(entry.expiresAt) {
		return nil, NotFoundErr
	}
	state := entry.state
	return &state, nil
}

func (r *InMemoryRepo) Invalidate(_ context.Context, stateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, stateID)
	return nil
}
