package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/guidecrawl"
)

// Ensure LoggingCache implements guidecrawl.Cache.
var _ guidecrawl.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging. Misses are logged as such,
// not as errors.
type LoggingCache struct {
	next   guidecrawl.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next guidecrawl.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs the lookup.
func (c *LoggingCache) Get(ctx context.Context, url string) (records []*guidecrawl.PageRecord, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"hit", err == nil,
			"records", len(records),
			"duration", time.Since(begin),
		}
		if err != nil && guidecrawl.ErrorCode(err) != guidecrawl.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		c.logger.Debug("cache get", attrs...)
	}(time.Now())
	return c.next.Get(ctx, url)
}

// Put delegates to the wrapped cache and logs the write.
func (c *LoggingCache) Put(ctx context.Context, url string, records []*guidecrawl.PageRecord, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache put",
			"url", url,
			"records", len(records),
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Put(ctx, url, records, ttl)
}
