// database/redis.go
package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"bmeams/config"
)

// Redis is nil when REDIS_ADDR is not configured; callers must treat the
// cache as optional.
var Redis *redis.Client

func ConnectRedis() {
	if config.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, dashboard caching disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.RedisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis ping failed, caching disabled: %v", err)
		client.Close()
		return
	}

	Redis = client
	log.Println("Successfully connected to Redis")
}

func DisconnectRedis() {
	if Redis == nil {
		return
	}
	if err := Redis.Close(); err != nil {
		log.Printf("Redis disconnect warning: %v", err)
	}
}
