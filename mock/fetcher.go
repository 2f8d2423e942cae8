package mock

import (
	"context"

	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of guidecrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ guidecrawl.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of guidecrawl.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string, depth int, platform *guidecrawl.Platform) (*guidecrawl.Page, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string, depth int, platform *guidecrawl.Platform) (*guidecrawl.Page, error) {
	return f.FetchPageFn(ctx, url, depth, platform)
}
