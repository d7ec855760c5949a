// Package cache holds the shared Redis client plus the cache-aside helpers
// and key inventory the repositories build on. Redis is optional at runtime;
// everything here degrades to a no-op when the client is nil.
package cache

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hayai/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errorCountHook feeds Redis command failures into the Prometheus error
// counter. redis.Nil is a cache miss, not a failure.
type errorCountHook struct{}

func (h errorCountHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h errorCountHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h errorCountHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

func parseOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis initializes the Redis client. The address may be a plain
// host:port or a redis:// URL. A failed connection leaves the client nil;
// callers treat that as cache-off rather than an error.
func InitRedis(addr string) {
	opts, err := parseOptions(addr)
	if err != nil {
		log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
		client = nil
		return
	}
	opts.ClientName = "hayai-api"

	client = redis.NewClient(opts)
	client.AddHook(errorCountHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		client = nil
	} else {
		log.Println("Redis connected successfully")
	}
}

// GetClient returns the shared Redis client, or nil when caching is off.
func GetClient() *redis.Client {
	return client
}
