package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"clearvide/internal/domain"
)

// RedisKV stores each session as one hash, "clearvide:session:<id>", whose
// fields are the persisted keys. The hash expires after ttl of inactivity.
type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisKV(client *redis.Client, ttl time.Duration) *RedisKV {
	return &RedisKV{client: client, ttl: ttl}
}

func sessionKey(session string) string {
	return "clearvide:session:" + session
}

func (r *RedisKV) Get(ctx context.Context, session, key string) ([]byte, error) {
	v, err := r.client.HGet(ctx, sessionKey(session), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

func (r *RedisKV) Set(ctx context.Context, session, key string, value []byte) error {
	k := sessionKey(session)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, k, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
