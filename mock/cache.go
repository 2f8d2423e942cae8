package mock

import (
	"context"
	"time"

	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.Cache = (*Cache)(nil)

// Cache is a mock implementation of guidecrawl.Cache.
type Cache struct {
	GetFn func(ctx context.Context, url string) ([]*guidecrawl.PageRecord, error)
	PutFn func(ctx context.Context, url string, records []*guidecrawl.PageRecord, ttl time.Duration) error
}

func (c *Cache) Get(ctx context.Context, url string) ([]*guidecrawl.PageRecord, error) {
	return c.GetFn(ctx, url)
}

func (c *Cache) Put(ctx context.Context, url string, records []*guidecrawl.PageRecord, ttl time.Duration) error {
	return c.PutFn(ctx, url, records, ttl)
}
