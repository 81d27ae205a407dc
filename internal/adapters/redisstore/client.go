// Package redisstore keeps sessions and tracking snapshots in Redis.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/activeplay/booking-service/internal/config"
)

// Client is the subset of *redis.Client used by the stores.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ Client = (*redis.Client)(nil)

// Breaker guards every call to one Redis server. Stores built on the same
// client should share a single Breaker so they trip together.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewBreaker() *Breaker {
	return &Breaker{cb: config.NewCircuitBreaker(config.BreakerRedis)}
}

// exec runs fn through the breaker; redis.Nil is a miss, not a failure.
func (b *Breaker) exec(fn func() error) error {
	var miss bool
	_, err := b.cb.Execute(func() (interface{}, error) {
		err := fn()
		if errors.Is(err, redis.Nil) {
			miss = true
			return nil, nil
		}
		return nil, err
	})
	if miss {
		return redis.Nil
	}
	return err
}
