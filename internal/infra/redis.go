package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client. Redis carries two small
// workloads: the day-open snapshot cache and the delivery-cleanup retry
// queue. A single till generates a handful of commands per minute, so the
// pool is kept small; most connections would otherwise sit idle between
// BRPop wakeups.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = 8
	opts.ConnMaxIdleTime = 5 * time.Minute

	rdb := redis.NewClient(opts)

	// Fail at startup, not on the first sale of the day.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
