package repository

import (
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "gatekeeper:ratelimit"

// NewRedisLimiterStore keeps rate-limit counters in Redis so every replica
// shares one budget per client.
func NewRedisLimiterStore(client *redis.Client) (limiter.Store, error) {
	return redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: limiterPrefix,
	})
}

// NewMemoryLimiterStore is the single-instance fallback.
func NewMemoryLimiterStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          limiterPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
}
