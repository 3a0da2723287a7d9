package descriptions

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Connect crea el cliente Redis desde URL (redis://...) o host:port.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// LoadRedis lee el hash key (campo = código, valor = descripción) una sola vez.
func LoadRedis(ctx context.Context, client *redis.Client, key string) (Catalog, error) {
	raw, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("leer hash %s: %w", key, err)
	}
	return NewCatalog(raw), nil
}
