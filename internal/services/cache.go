package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AnswerCache stores answers by key. A miss is reported with ok=false and a
// nil error.
type AnswerCache interface {
	Get(ctx context.Context, key string) (answer string, ok bool, err error)
	Set(ctx context.Context, key, answer string, ttl time.Duration) error
}

type RedisAnswerCache struct {
	client *redis.Client
}

func NewRedisAnswerCache(client *redis.Client) *RedisAnswerCache {
	return &RedisAnswerCache{client: client}
}

func (c *RedisAnswerCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisAnswerCache) Set(ctx context.Context, key, answer string, ttl time.Duration) error {
	return c.client.Set(ctx, key, answer, ttl).Err()
}

// CachedTutor serves repeated questions from the cache. Cache errors are
// logged and otherwise ignored.
type CachedTutor struct {
	next   Tutor
	cache  AnswerCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedTutor(next Tutor, cache AnswerCache, ttl time.Duration, logger *zap.Logger) *CachedTutor {
	return &CachedTutor{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (t *CachedTutor) Answer(ctx context.Context, question string) (string, error) {
	key := cacheKey(question)

	answer, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.logger.Warn("answer cache read failed", zap.Error(err))
	} else if ok {
		t.logger.Debug("answer cache hit", zap.String("key", key))
		return answer, nil
	}

	answer, err = t.next.Answer(ctx, question)
	if err != nil || answer == "" {
		return answer, err
	}

	if err := t.cache.Set(ctx, key, answer, t.ttl); err != nil {
		t.logger.Warn("answer cache write failed", zap.Error(err))
	}
	return answer, nil
}

func cacheKey(question string) string {
	sum := sha256.Sum256([]byte(question))
	return "answer:" + hex.EncodeToString(sum[:])
}
