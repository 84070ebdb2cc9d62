package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"hotelstay/internal/pkg/errs"
)

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "hotelstay:idem:"}
}

// NewRedisClient connects and pings; callers disable idempotency on error.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "ping redis")
	}
	return client, nil
}

func (s *RedisStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*Record, bool, error) {
	pending, err := json.Marshal(Record{State: StatePending, Fingerprint: fingerprint})
	if err != nil {
		return nil, false, errs.Wrap(err, "encode idempotency record")
	}

	// One retry covers a key that expires between SETNX and GET.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.rdb.SetNX(ctx, s.prefix+key, pending, ttl).Result()
		if err != nil {
			return nil, false, errs.Wrap(err, "reserve idempotency key")
		}
		if ok {
			return nil, true, nil
		}

		raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, errs.Wrap(err, "read idempotency key")
		}

		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, false, errs.Wrap(err, "decode idempotency record")
		}
		return &rec, false, nil
	}
	return nil, false, errs.Conflict("idempotency key is busy")
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errs.Wrap(err, "encode idempotency record")
	}
	if err := s.rdb.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return errs.Wrap(err, "store idempotent response")
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return errs.Wrap(err, "release idempotency key")
	}
	return nil
}
