package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// catalogTTL bounds how stale proxied catalog data can get. Popularity
// rankings move slowly, so an hour is plenty.
const catalogTTL = time.Hour

// CatalogCache is a JSON cache-aside layer for catalog lookups keyed by
// endpoint and query, e.g. catalog:popular:3, catalog:movie:42.
type CatalogCache struct{}

func NewCatalogCache() *CatalogCache {
	return &CatalogCache{}
}

func (c *CatalogCache) Get(ctx context.Context, key string, dst any) error {
	client := RedisClient()
	defer client.Close()

	payload, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("cache get %s: unmarshal: %w", key, err)
	}
	return nil
}

func (c *CatalogCache) Set(ctx context.Context, key string, value any) error {
	client := RedisClient()
	defer client.Close()

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache set %s: marshal: %w", key, err)
	}

	if err := client.Set(ctx, key, payload, catalogTTL).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
