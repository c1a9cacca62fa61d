package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces verification codes in Redis.
const redisKeyPrefix = "otp:"

// redisGrace keeps expired records around long enough for the consumer to
// report expiry instead of not-found.
const redisGrace = time.Hour

// RedisStore persists pending codes in Redis so codes survive restarts and
// are shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore around an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(purpose Purpose, key string) string {
	return redisKeyPrefix + string(purpose) + ":" + key
}

// Put stores a record with a TTL covering the expiry plus the grace window.
func (s *RedisStore) Put(ctx context.Context, purpose Purpose, key string, rec Record) error {
	raw, errMarshal := json.Marshal(rec)
	if errMarshal != nil {
		return errMarshal
	}
	ttl := time.Until(rec.ExpiresAt) + redisGrace
	if ttl <= 0 {
		ttl = redisGrace
	}
	return s.client.Set(ctx, redisKey(purpose, key), raw, ttl).Err()
}

// Get returns the pending record, if any.
func (s *RedisStore) Get(ctx context.Context, purpose Purpose, key string) (Record, bool, error) {
	raw, errGet := s.client.Get(ctx, redisKey(purpose, key)).Bytes()
	if errGet != nil {
		if errors.Is(errGet, redis.Nil) {
			return Record{}, false, nil
		}
		return Record{}, false, errGet
	}
	var rec Record
	if errUnmarshal := json.Unmarshal(raw, &rec); errUnmarshal != nil {
		return Record{}, false, errUnmarshal
	}
	return rec, true, nil
}

// Delete removes the pending record.
func (s *RedisStore) Delete(ctx context.Context, purpose Purpose, key string) error {
	return s.client.Del(ctx, redisKey(purpose, key)).Err()
}
