package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errSessionNotFound = errors.New("session not found")

// SessionStore registra as sessões ativas. Um token só vale enquanto a
// sessão dele existir aqui.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	UserID(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string { return "session:" + id }
func userSetKey(uid string) string { return "user_sessions:" + uid }

func (s *RedisSessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), userID, ttl)
	pipe.SAdd(ctx, userSetKey(userID), sessionID)
	pipe.Expire(ctx, userSetKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisSessionStore) UserID(ctx context.Context, sessionID string) (string, error) {
	uid, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return uid, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	uid, err := s.UserID(ctx, sessionID)
	if errors.Is(err, errSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userSetKey(uid), sessionID)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteByUser derruba todas as sessões do usuário.
func (s *RedisSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to list sessions of %s: %w", userID, err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSetKey(userID))
	return s.client.Del(ctx, keys...).Err()
}
