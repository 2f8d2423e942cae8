// Package lru implements guidecrawl.Cache in process memory.
//
// Entries live only as long as the process. It serves single runs where no
// Redis server is available but repeated seeds still benefit from caching.
package lru

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/guidecrawl"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize is the default maximum number of cached URLs.
const DefaultSize = 4096

// Ensure Cache implements guidecrawl.Cache at compile time.
var _ guidecrawl.Cache = (*Cache)(nil)

type entry struct {
	records []*guidecrawl.PageRecord
	expires time.Time
}

// Cache is a size-bounded LRU whose entries expire individually.
//
// The underlying LRU evicts everything after maxTTL. Shorter TTLs passed to
// Put are enforced on read.
type Cache struct {
	lru *expirable.LRU[uint64, entry]
	now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a Cache holding at most size URLs for at most maxTTL.
func NewCache(size int, maxTTL time.Duration, opts ...Option) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if maxTTL <= 0 {
		maxTTL = guidecrawl.DefaultCacheTTL
	}
	c := &Cache{
		lru: expirable.NewLRU[uint64, entry](size, nil, maxTTL),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the records cached for url.
func (c *Cache) Get(_ context.Context, url string) ([]*guidecrawl.PageRecord, error) {
	key := hash(url)
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "no cache entry for %s", url)
	}
	if !c.now().Before(e.expires) {
		c.lru.Remove(key)
		return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "no cache entry for %s", url)
	}
	return append([]*guidecrawl.PageRecord(nil), e.records...), nil
}

// Put stores records for url, expiring after ttl.
func (c *Cache) Put(_ context.Context, url string, records []*guidecrawl.PageRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return guidecrawl.Errorf(guidecrawl.EINVALID, "cache ttl must be positive")
	}
	c.lru.Add(hash(url), entry{
		records: append([]*guidecrawl.PageRecord(nil), records...),
		expires: c.now().Add(ttl),
	})
	return nil
}

// Len returns the number of entries, including ones not yet expired by read.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func hash(url string) uint64 {
	return xxhash.Sum64String(guidecrawl.NormalizeURL(url))
}
