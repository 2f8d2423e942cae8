// Package redis implements guidecrawl.Cache on a Redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/guidecrawl"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces crawler entries in a shared Redis database.
const KeyPrefix = "guidecrawl:"

// connectionTimeout is the timeout for verifying Redis connection.
const connectionTimeout = 5 * time.Second

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     int
	DB       int
	Password string
}

// Addr returns the host:port address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewClient creates a Redis client and verifies the connection.
// Callers degrade to running without a cache when it fails.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if cfg.Host == "" {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "redis host is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Key returns the cache key for url. It depends only on the normalized URL.
func Key(url string) string {
	return fmt.Sprintf("%s%016x", KeyPrefix, xxhash.Sum64String(guidecrawl.NormalizeURL(url)))
}

// Ensure Cache implements guidecrawl.Cache at compile time.
var _ guidecrawl.Cache = (*Cache)(nil)

// Cache stores records as JSON values with a server-side expiry.
type Cache struct {
	client goredis.Cmdable
}

// NewCache creates a new Cache on client.
func NewCache(client goredis.Cmdable) *Cache {
	return &Cache{client: client}
}

// Get returns the records cached for url.
func (c *Cache) Get(ctx context.Context, url string) ([]*guidecrawl.PageRecord, error) {
	data, err := c.client.Get(ctx, Key(url)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "no cache entry for %s", url)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var records []*guidecrawl.PageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return records, nil
}

// Put stores records for url, expiring after ttl.
func (c *Cache) Put(ctx context.Context, url string, records []*guidecrawl.PageRecord, ttl time.Duration) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, Key(url), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
