package statestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/authn"
	"github.com/permithq/tenantgate/authn/statestore"
)

func newState(ttlSeconds int64) *authn.AuthState {
	return authn.NewAuthState("org-1", "/dashboard", "203.0.113.7", "test-agent", ttlSeconds)
}

func TestInMemoryStoreRetrieve(t *testing.T) {
	repo := statestore.NewInMemoryRepo()
	ctx := context.Background()

	state := newState(300)
	stateID, err := repo.Store(ctx, state)
	require.NoError(t, err)
	require.NotEmpty(t, stateID)

	got, err := repo.Retrieve(ctx, stateID)
	require.NoError(t, err)
	require.Equal(t, state.Nonce, got.Nonce)
	require.Equal(t, state.CodeVerifier, got.CodeVerifier)
}

func TestInMemoryRetrieveUnknown(t *testing.T) {
	repo := statestore.NewInMemoryRepo()

	_, err := repo.Retrieve(context.Background(), "no-such-id")
	require.ErrorIs(t, err, statestore.NotFoundErr)
}

func TestInMemoryStoreMintsUniqueIDs(t *testing.T) {
	repo := statestore.NewInMemoryRepo()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		stateID, err := repo.Store(ctx, newState(300))
		require.NoError(t, err)
		require.False(t, seen[stateID])
		seen[stateID] = true
	}
}

func TestInMemoryRetrieveAndInvalidate(t *testing.T) {
	repo := statestore.NewInMemoryRepo()
	ctx := context.Background()

	stateID, err := repo.Store(ctx, newState(300))
	require.NoError(t, err)

	_, err = repo.RetrieveAndInvalidate(ctx, stateID)
	require.NoError(t, err)

	_, err = repo.RetrieveAndInvalidate(ctx, stateID)
	require.ErrorIs(t, err, statestore.NotFoundErr)
}

func TestInMemoryInvalidateIdempotent(t *testing.T) {
	repo := statestore.NewInMemoryRepo()
	ctx := context.Background()

	stateID, err := repo.Store(ctx, newState(300))
	require.NoError(t, err)

	require.NoError(t, repo.Invalidate(ctx, stateID))
	require.NoError(t, repo.Invalidate(ctx, stateID))

	_, err = repo.Retrieve(ctx, stateID)
	require.ErrorIs(t, err, statestore.NotFoundErr)
}

func TestInMemoryExpiredEntry(t *testing.T) {
	repo := statestore.NewInMemoryRepo()
	ctx := context.Background()

	stateID, err := repo.Store(ctx, newState(0))
	require.NoError(t, err)

	_, err = repo.Retrieve(ctx, stateID)
	require.ErrorIs(t, err, statestore.NotFoundErr)
}
