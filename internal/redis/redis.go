package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a byte cache backed by a Redis server.
type Cache struct {
	Rdb *redis.Client
}

func NewCache(redisAddress string, redisUsername string, redisPassword string) *Cache {
	return &Cache{
		Rdb: redis.NewClient(&redis.Options{
			Addr:     redisAddress,
			Username: redisUsername,
			Password: redisPassword,
			DB:       0,
		}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

// Get returns ok=false without an error when the key does not exist.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.Rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := c.Rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to add key to redis")
		return err
	}
	return nil
}

func (c *Cache) Close() error {
	return c.Rdb.Close()
}
