package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs: data points change on every vote, layer files only on ingest.
const (
	DataPointCacheTTL = 5 * time.Minute
	LayerCacheTTL     = 15 * time.Minute
)

// CacheService provides a Redis cache-aside layer for data point and layer
// file lookups.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetDataPoint retrieves a cached data point response. Returns nil when not
// cached or the cache is disabled.
func (c *CacheService) GetDataPoint(ctx context.Context, id string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, dataPointKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetDataPoint stores a data point response in cache.
func (c *CacheService) SetDataPoint(ctx context.Context, id string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dataPointKey(id), b, DataPointCacheTTL).Err()
}

// InvalidateDataPoint removes a data point from cache (called after vote
// changes).
func (c *CacheService) InvalidateDataPoint(ctx context.Context, id string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, dataPointKey(id)).Err()
}

// GetLayer retrieves a cached GeoJSON layer body. Returns nil when not cached.
func (c *CacheService) GetLayer(ctx context.Context, layer string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, layerKey(layer)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetLayer stores a GeoJSON layer body in cache.
func (c *CacheService) SetLayer(ctx context.Context, layer string, body []byte) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, layerKey(layer), body, LayerCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func dataPointKey(id string) string {
	return fmt.Sprintf("datapoint:%s", id)
}

func layerKey(layer string) string {
	return fmt.Sprintf("layer:%s", layer)
}
