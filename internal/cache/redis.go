package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"classifier-api/internal/model"
	"classifier-api/internal/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewRedis shares predictions between replicas. Redis failures are logged
// and treated as misses, a prediction can always be recomputed.
func NewRedis(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) Cache {
	return &redisCache{client: client, ttl: ttl, log: log}
}

func (r *redisCache) Get(ctx context.Context, key string) (model.Prediction, bool) {
	ctx, cancel := context.WithTimeout(ctx, shared.CacheRequestTimeout)
	defer cancel()

	var p model.Prediction
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &p); err != nil {
			r.log.Errorw("Error unmarshalling cached prediction", "key", key, "error", err)
			record("redis", false)
			return model.Prediction{}, false
		}
		record("redis", true)
		return p, true
	case errors.Is(err, redis.Nil):
		r.log.Debugw("Prediction cache miss", "key", key)
	default:
		r.log.Warnw("Failed reading prediction cache", "key", key, "error", err)
	}
	record("redis", false)
	return model.Prediction{}, false
}

func (r *redisCache) Set(ctx context.Context, key string, p model.Prediction) {
	raw, err := json.Marshal(p)
	if err != nil {
		r.log.Errorw("Error marshalling prediction", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, shared.CacheRequestTimeout)
	defer cancel()
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.log.Warnw("Failed writing prediction cache", "key", key, "error", err)
	}
}
