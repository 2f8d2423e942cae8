// Package crawl provides bounded, depth-first documentation crawling.
// It coordinates fetch strategies, content extraction, caching, link
// discovery and persistence for a list of platforms.
package crawl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/bloom"
)

// Crawl limits.
const (
	DefaultMaxDepth      = 5
	DefaultMaxPages      = 200
	DefaultResetInterval = 20
)

// Visited set sizing. The filter is sized well above the page budget so
// false positives stay rare.
const (
	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.001
)

// Budget records how much of a run's limits were used.
type Budget struct {
	PagesVisited int
	DriverResets int
	MaxPages     int
	MaxDepth     int
}

// Run is the outcome of crawling one platform.
type Run struct {
	Platform string
	Records  []*guidecrawl.PageRecord
	Budget   Budget
	Duration time.Duration
}

// Controller crawls one platform at a time, depth first from its start URL.
// A Controller holds no per-run state and may be reused across platforms,
// but not concurrently with one Session.
type Controller struct {
	Fetcher   guidecrawl.PageFetcher
	Extractor guidecrawl.Extractor
	Links     *LinkDiscoverer

	// Cache is optional. Any cache error is treated as a miss.
	Cache    guidecrawl.Cache
	CacheTTL time.Duration

	// Session is optional. It is reset every ResetInterval dispatches.
	Session       guidecrawl.Session
	ResetInterval int

	// RateLimiter is optional. It is waited on before every fetch.
	RateLimiter guidecrawl.DomainLimiter

	// NewVisitedSet creates the visited set of each run.
	// Defaults to a Bloom filter set.
	NewVisitedSet func() guidecrawl.VisitedSet

	MaxDepth int
	MaxPages int

	Logger   *slog.Logger
	Progress ProgressFunc
}

// Crawl runs a bounded crawl of platform. When ctx is canceled it stops
// fetching and returns the records gathered so far along with ctx.Err().
func (c *Controller) Crawl(ctx context.Context, platform *guidecrawl.Platform) (*Run, error) {
	if err := platform.Validate(); err != nil {
		return nil, err
	}
	seed, err := url.Parse(platform.StartURL)
	if err != nil {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "invalid start URL %q", platform.StartURL)
	}
	seedHost := seed.Hostname()

	begin := time.Now()
	maxDepth := c.maxDepth()
	run := &Run{
		Platform: platform.Name,
		Records:  []*guidecrawl.PageRecord{},
		Budget: Budget{
			MaxPages: c.maxPages(platform),
			MaxDepth: maxDepth,
		},
	}
	resetsBefore := c.resets()
	finish := func() {
		run.Budget.DriverResets = c.resets() - resetsBefore
		run.Duration = time.Since(begin)
	}

	visited := c.newVisitedSet()
	stack := &workList{}
	stack.push([]string{platform.StartURL}, 0)

	for {
		item, ok := stack.pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			finish()
			return run, err
		}

		if item.depth >= maxDepth {
			continue
		}
		if run.Budget.PagesVisited >= run.Budget.MaxPages {
			continue
		}
		if !visited.Insert(item.url) {
			continue
		}
		prior := run.Budget.PagesVisited
		run.Budget.PagesVisited++

		strategy := ChooseStrategy(platform, item.depth)
		c.progress(ProgressEvent{Type: ProgressDispatched, Platform: platform.Name, URL: item.url, Depth: item.depth, Strategy: strategy})

		if c.Cache != nil {
			if cached, ok := c.cached(ctx, item.url); ok {
				run.Records = append(run.Records, cached...)
				c.progress(ProgressEvent{Type: ProgressCacheHit, Platform: platform.Name, URL: item.url, Depth: item.depth, Records: len(cached)})
				continue
			}
			c.progress(ProgressEvent{Type: ProgressCacheMiss, Platform: platform.Name, URL: item.url, Depth: item.depth})
		}

		if err := c.maybeReset(ctx, prior); err != nil && ctx.Err() != nil {
			finish()
			return run, ctx.Err()
		}

		page, err := c.fetch(ctx, item, platform)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				finish()
				return run, ctxErr
			}
			c.logger().Warn("fetch failed", "platform", platform.Name, "url", item.url, "depth", item.depth, "err", err)
			c.progress(ProgressEvent{Type: ProgressFailed, Platform: platform.Name, URL: item.url, Depth: item.depth, Strategy: strategy, Err: err})
			continue
		}

		records, err := c.Extractor.Extract(page, platform.Name)
		if err != nil {
			c.logger().Warn("extract failed", "platform", platform.Name, "url", item.url, "err", err)
			c.progress(ProgressEvent{Type: ProgressFailed, Platform: platform.Name, URL: item.url, Depth: item.depth, Strategy: page.Strategy, Err: err})
			continue
		}
		if len(records) == 0 {
			c.progress(ProgressEvent{Type: ProgressRejected, Platform: platform.Name, URL: item.url, Depth: item.depth, Strategy: page.Strategy})
			continue
		}

		run.Records = append(run.Records, records...)
		c.store(ctx, item.url, records)
		c.progress(ProgressEvent{Type: ProgressAccepted, Platform: platform.Name, URL: item.url, Depth: item.depth, Records: len(records), Strategy: page.Strategy})

		if item.depth < maxDepth-1 && c.Links != nil {
			links := c.Links.Discover(page, seedHost, platform, visited)
			stack.push(links, item.depth+1)
			c.logger().Debug("links", "url", item.url, "found", len(links), "queued", stack.len())
		}
	}

	finish()
	return run, nil
}

func (c *Controller) fetch(ctx context.Context, item workItem, platform *guidecrawl.Platform) (*guidecrawl.Page, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(item.url)
		if err != nil {
			return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "invalid URL %q", item.url)
		}
		if err := c.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}
	return c.Fetcher.FetchPage(ctx, item.url, item.depth, platform)
}

// cached returns the cached records for url. Misses and errors both report
// false; only unexpected errors are logged.
func (c *Controller) cached(ctx context.Context, url string) ([]*guidecrawl.PageRecord, bool) {
	records, err := c.Cache.Get(ctx, url)
	if err != nil {
		if guidecrawl.ErrorCode(err) != guidecrawl.ENOTFOUND {
			c.logger().Warn("cache get failed", "url", url, "err", err)
		}
		return nil, false
	}
	return records, true
}

func (c *Controller) store(ctx context.Context, url string, records []*guidecrawl.PageRecord) {
	if c.Cache == nil {
		return
	}
	ttl := c.CacheTTL
	if ttl <= 0 {
		ttl = guidecrawl.DefaultCacheTTL
	}
	if err := c.Cache.Put(ctx, url, records, ttl); err != nil {
		c.logger().Warn("cache put failed", "url", url, "err", err)
	}
}

// maybeReset resets the session before the first fetch after every
// ResetInterval dispatches. A failed reset is logged; the next fetch then
// fails and is retried.
func (c *Controller) maybeReset(ctx context.Context, prior int) error {
	interval := c.ResetInterval
	if interval <= 0 {
		interval = DefaultResetInterval
	}
	if c.Session == nil || prior == 0 || prior%interval != 0 {
		return nil
	}
	if err := c.Session.Reset(ctx); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			c.logger().Warn("preventive session reset failed", "err", err)
		}
		return err
	}
	return nil
}

func (c *Controller) resets() int {
	if c.Session == nil {
		return 0
	}
	return c.Session.Resets()
}

func (c *Controller) maxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return DefaultMaxDepth
}

func (c *Controller) maxPages(platform *guidecrawl.Platform) int {
	if platform.MaxPages > 0 {
		return platform.MaxPages
	}
	if c.MaxPages > 0 {
		return c.MaxPages
	}
	return DefaultMaxPages
}

func (c *Controller) newVisitedSet() guidecrawl.VisitedSet {
	if c.NewVisitedSet != nil {
		return c.NewVisitedSet()
	}
	return bloom.NewSet(visitedExpectedURLs, visitedFalsePositiveRate)
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discardLogger
}

func (c *Controller) progress(e ProgressEvent) {
	if c.Progress != nil {
		c.Progress(e)
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
