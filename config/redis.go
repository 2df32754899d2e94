package config

import (
	"context"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the shared Redis client. Nil when REDIS_ADDR is not set; the
// cache layer then stays in-memory only.
var RedisClient *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	db := 0
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		db = n
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})
}

// RedisKey namespaces a cache key so several apps can share one Redis.
func RedisKey(key string) string {
	return GetEnv("APP_NAME", "stockmaster") + ":" + key
}

func RedisCtx() context.Context {
	return context.Background()
}
