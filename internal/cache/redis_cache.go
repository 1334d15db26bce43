package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"tokohape/backend/internal/domain"
)

type RedisPromoRatesCache struct {
	client *redis.Client
}

func NewRedisPromoRatesCache(addr string, password string, db int) *RedisPromoRatesCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisPromoRatesCache{client: client}
}

func (c *RedisPromoRatesCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisPromoRatesCache) Close() error {
	return c.client.Close()
}

func (c *RedisPromoRatesCache) Get(ctx context.Context, key string) (*domain.PromoRates, bool, error) {
	val, err := c.client.Get(ctx, "promo-rates:"+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rates domain.PromoRates
	if err := json.Unmarshal([]byte(val), &rates); err != nil {
		return nil, false, err
	}
	return &rates, true, nil
}

func (c *RedisPromoRatesCache) Set(ctx context.Context, key string, value *domain.PromoRates, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "promo-rates:"+key, payload, ttl).Err()
}
