package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorodskoybaton/bot/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore externalizes sessions to Redis for deployments that want
// in-flight orders to survive a process restart. Selected with
// session.backend = "redis"; the state machine does not change.
type RedisStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisStore creates a Redis-backed session store. A zero ttl keeps
// sessions without expiration.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		keyPrefix:   "baton:session:",
		ttl:         ttl,
	}
}

func (s *RedisStore) key(chatID int64) string {
	return s.keyPrefix + strconv.FormatInt(chatID, 10)
}

func (s *RedisStore) Get(ctx context.Context, chatID int64) (*domain.Session, error) {
	val, err := s.redisClient.Get(ctx, s.key(chatID)).Result()
	if err != nil {
		if err == redis.Nil {
			return domain.NewSession(chatID), nil
		}
		return nil, fmt.Errorf("failed to get session for chat %d: %w", chatID, err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session for chat %d: %w", chatID, err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session for chat %d: %w", session.ChatID, err)
	}

	if err := s.redisClient.Set(ctx, s.key(session.ChatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session for chat %d: %w", session.ChatID, err)
	}
	return nil
}
