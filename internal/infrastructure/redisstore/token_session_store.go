package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

// TokenSessionStore keeps the serialized authorization-server token of
// each user in a hash {token, updated_at}.
type TokenSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTokenSessionStore(rdb *redis.Client, ttl time.Duration) *TokenSessionStore {
	return &TokenSessionStore{rdb: rdb, ttl: ttl}
}

func tokenKey(username string) string { return "oauth:token:" + username }

// UpdateSession upserts the token for username and resets its TTL.
func (s *TokenSessionStore) UpdateSession(ctx context.Context, username string, token []byte) (bool, error) {
	key := tokenKey(username)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"token":      token,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, repository.StorageError("update token session", err)
	}
	return true, nil
}

func (s *TokenSessionStore) GetSession(ctx context.Context, username string) ([]byte, error) {
	b, err := s.rdb.HGet(ctx, tokenKey(username), "token").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, repository.StorageError("get token session", err)
	}
	return b, nil
}

// DeleteSession drops the stored token.
func (s *TokenSessionStore) DeleteSession(ctx context.Context, username string) error {
	if err := s.rdb.Del(ctx, tokenKey(username)).Err(); err != nil {
		return repository.StorageError("delete token session", err)
	}
	return nil
}

var _ repository.TokenSessionRepository = (*TokenSessionStore)(nil)
