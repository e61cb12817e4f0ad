package datasetcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/planscope/planscope/pkg/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RedisStore struct {
	Cache *cache.Cache[string]
}

func NewRedisStore(client *redis.Client, expiration time.Duration) *RedisStore {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &RedisStore{
		Cache: cache.New[string](redisStore),
	}
}

func (r *RedisStore) Save(ctx context.Context, key string, persons []*model.Person) error {
	personsJSON, err := json.Marshal(persons)
	if err != nil {
		return err
	}

	return r.Cache.Set(ctx, key, string(personsJSON))
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]*model.Person, error) {
	personsJSON, err := r.Cache.Get(ctx, key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Dataset cache miss")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	var persons []*model.Person
	if err := json.Unmarshal([]byte(personsJSON), &persons); err != nil {
		return nil, fmt.Errorf("decoding cached dataset %s: %w", key, err)
	}

	return persons, nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.Cache.Delete(ctx, key)
}
