package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/crawl"
	"github.com/fwojciec/guidecrawl/fs"
	"github.com/fwojciec/guidecrawl/lru"
	"github.com/fwojciec/guidecrawl/prometheus"
	"github.com/fwojciec/guidecrawl/redis"
	gcslog "github.com/fwojciec/guidecrawl/slog"
	"github.com/fwojciec/guidecrawl/sqlite"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	platforms, err := loadPlatforms(c.Platforms, c.Only)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", guidecrawl.ErrorMessage(err))
		return err
	}

	ctx := deps.Ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cache, closeCache := c.openCache(ctx, deps)
	defer closeCache()

	stores := []guidecrawl.RecordStore{
		gcslog.NewLoggingRecordStore(fs.NewWriter(c.Output), "json", deps.Logger),
	}
	if c.SQLite != "" {
		db := sqlite.NewDB(c.SQLite)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", c.SQLite, err)
		}
		defer db.Close()
		stores = append(stores, gcslog.NewLoggingRecordStore(sqlite.NewRecordStore(db), "sqlite", deps.Logger))
	}

	var metrics *prometheus.Metrics
	if c.MetricsFile != "" {
		metrics = prometheus.NewMetrics()
	}
	progress := newReporter(deps.Stderr, c.Progress && !deps.Verbose, metrics)

	cfg := workerConfig{
		Cache:         cache,
		CacheTTL:      c.CacheTTL,
		RateLimiter:   crawl.NewDomainLimiter(c.RPS),
		MaxDepth:      c.MaxDepth,
		MaxPages:      c.MaxPages,
		ResetInterval: c.ResetInterval,
		Logger:        deps.Logger,
		Progress:      progress.Report,
	}
	pause := c.Pause
	if pause == 0 {
		pause = -1
	}

	driver := &crawl.Driver{
		Platforms: platforms,
		Stores:    stores,
		NewWorker: func() (*crawl.Worker, error) { return newWorker(deps, cfg) },
		Parallel:  c.Parallel,
		Pause:     pause,
		Logger:    deps.Logger,
		Progress:  progress.Report,
	}

	results, runErr := driver.Run(ctx)
	progress.Stop()

	if metrics != nil {
		if err := metrics.WriteToTextfile(c.MetricsFile); err != nil {
			deps.Logger.Error("writing metrics", "path", c.MetricsFile, "err", err)
		}
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	total := 0
	for _, name := range names {
		n := len(results[name])
		total += n
		fmt.Fprintf(deps.Stdout, "  %s: %d records from %d pages -> %s\n",
			name, n, progress.Pages(name), filepath.Join(c.Output, fs.PlatformFile(name)))
	}
	if results != nil {
		fmt.Fprintf(deps.Stdout, "Saved %d records from %d of %d platforms to %s\n",
			total, len(results), len(platforms), filepath.Join(c.Output, fs.ConsolidatedFile))
	}

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", runErr)
		return runErr
	}
	return nil
}

// openCache returns the configured cache, or nil when caching is disabled
// or Redis is unreachable.
func (c *CrawlCmd) openCache(ctx context.Context, deps *Dependencies) (guidecrawl.Cache, func()) {
	noop := func() {}

	switch c.Cache {
	case "memory":
		return gcslog.NewLoggingCache(lru.NewCache(c.CacheSize, c.CacheTTL), deps.Logger), noop
	case "redis":
		client, err := redis.NewClient(ctx, redis.Config{
			Host: c.RedisHost,
			Port: c.RedisPort,
			DB:   c.RedisDB,
		})
		if err != nil {
			deps.Logger.Warn("redis unavailable, caching disabled", "addr", fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort), "err", err)
			return nil, noop
		}
		deps.Logger.Info("redis cache connected", "addr", client.Options().Addr, "db", c.RedisDB)
		return gcslog.NewLoggingCache(redis.NewCache(client), deps.Logger), func() { _ = client.Close() }
	default:
		return nil, noop
	}
}
