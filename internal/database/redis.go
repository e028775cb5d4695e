package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// InitRedis connects the client backing the summary cache. Invalidation
// flushes the whole redis DB, so the default index 1 keeps the cache away
// from anything else sharing the server. Returns nil when redis is
// unreachable; callers fall back to the in-process cache.
func InitRedis() *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 1)

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.host") + ":" + viper.GetString("redis.port"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[CACHE] Redis unreachable, summaries use the in-process cache: %v", err)
		return nil
	}

	log.Printf("[CACHE] Redis connected at %s (db %d)", client.Options().Addr, viper.GetInt("redis.db"))
	return client
}
