package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	errx "github.com/nncoach/client-core/internal/core/error"
	logx "github.com/nncoach/client-core/pkg/logger"
)

// Redis backs the KV adapter with a Redis instance, for deployments where
// client state must survive host restarts or be shared across processes.
type Redis struct {
	rdb    redis.Cmdable
	prefix string
}

// NewRedis wraps an existing client. All keys are stored under prefix so
// several applications can share one instance.
func NewRedis(rdb redis.Cmdable, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read value from redis")
		return nil, false, errx.WrapRedis(err)
	}
	return raw, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write value to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete value from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ KV = (*Redis)(nil)
