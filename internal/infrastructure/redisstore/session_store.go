package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds HTTP sessions keyed by an opaque session id.
type SessionStore struct {
	rdb *redis.Client
	TTL time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{rdb: rdb, TTL: ttl}
}

func sessionKey(sid string) string { return "user:session:" + sid }

// Create stores u under a new session id and returns the id.
func (s *SessionStore) Create(ctx context.Context, u entity.SessionUser) (string, error) {
	sid := uuid.NewString()
	if err := helpers.RedisSetJSON(ctx, s.rdb, sessionKey(sid), u, s.TTL); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *SessionStore) Get(ctx context.Context, sid string) (*entity.SessionUser, error) {
	var u entity.SessionUser
	found, err := helpers.RedisGetJSON(ctx, s.rdb, sessionKey(sid), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &u, nil
}

func (s *SessionStore) Destroy(ctx context.Context, sid string) error {
	return helpers.RedisDel(ctx, s.rdb, sessionKey(sid))
}
