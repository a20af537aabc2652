package statestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/permithq/tenantgate/authn"
)

const keyPrefix = "auth:state:"

// RedisRepo stores pending login state in Redis so every gateway instance
// sees the same entries. TTL-based eviction handles abandoned attempts
// without any sweeper.
type RedisRepo struct {
	client  *redis.Client
	timeout time.Duration
}

var _ Repo = (*RedisRepo)(nil)

// NewRedisRepo wraps an existing client. Every round trip is bounded by
// timeout so a dead cache fails the login attempt instead of hanging the
// request.
func NewRedisRepo(client *redis.Client, timeout time.Duration) *RedisRepo {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RedisRepo{client: client, timeout: timeout}
}

func (r *RedisRepo) Store(ctx context.Context, state *authn.AuthState) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stateID := authn.GenerateRandomString(16)
	ttl := time.Duration(state.ExpiresAt-state.CreatedAt) * time.Second

	raw, err := json.Marshal(state)
	if err != nil {
		return "", errors.Wrap(err, "[RedisRepo.Store] marshal state")
	}

	if err := r.client.SetEx(ctx, keyPrefix+stateID, raw, ttl).Err(); err != nil {
		return "", errors.Wrap(err, "[RedisRepo.Store] setex")
	}
	return stateID, nil
}

func (r *RedisRepo) Retrieve(ctx context.Context, stateID string) (*authn.AuthState, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.client.Get(ctx, keyPrefix+stateID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, NotFoundErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RedisRepo.Retrieve] get")
	}
	return unmarshalState(raw, "[RedisRepo.Retrieve]")
}

// RetrieveAndInvalidate uses GETDEL so the read and the delete are a
// single Redis operation; a concurrent second submit of the same state
// observes NotFoundErr.
func (r *RedisRepo) RetrieveAndInvalidate(ctx context.Context, stateID string) (*authn.AuthState, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.client.GetDel(ctx, keyPrefix+stateID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, NotFoundErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RedisRepo.RetrieveAndInvalidate] getdel")
	}
	return unmarshalState(raw, "[RedisRepo.RetrieveAndInvalidate]")
}

func (r *RedisRepo) Invalidate(ctx context.Context, stateID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, keyPrefix+stateID).Err(); err != nil {
		return errors.Wrap(err, "[RedisRepo.Invalidate] del")
	}
	return nil
}

func unmarshalState(raw []byte, op string) (*authn.AuthState, error) {
	var state authn.AuthState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, errors.Wrap(err, op+" unmarshal state")
	}
	return &state, nil
}
