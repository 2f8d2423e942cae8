package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/crawl"
	"github.com/fwojciec/guidecrawl/goquery"
	gchttp "github.com/fwojciec/guidecrawl/http"
	"github.com/fwojciec/guidecrawl/rod"
	gcslog "github.com/fwojciec/guidecrawl/slog"
)

// workerConfig is shared by every worker of one crawl.
type workerConfig struct {
	Cache         guidecrawl.Cache
	CacheTTL      time.Duration
	RateLimiter   guidecrawl.DomainLimiter
	MaxDepth      int
	MaxPages      int
	ResetInterval int
	Logger        *slog.Logger
	Progress      crawl.ProgressFunc
}

// newWorker builds a controller with its own browser session. A browser
// that cannot be launched is a fatal error.
func newWorker(deps *Dependencies, cfg workerConfig) (*crawl.Worker, error) {
	controller := &crawl.Controller{
		Extractor:     goquery.NewExtractor(),
		Links:         crawl.NewLinkDiscoverer(goquery.NewAnchorParser(), guidecrawl.DefaultLinkRules()),
		Cache:         cfg.Cache,
		CacheTTL:      cfg.CacheTTL,
		ResetInterval: cfg.ResetInterval,
		RateLimiter:   cfg.RateLimiter,
		MaxDepth:      cfg.MaxDepth,
		MaxPages:      cfg.MaxPages,
		Logger:        cfg.Logger,
		Progress:      cfg.Progress,
	}

	if deps.PageFetcher != nil {
		controller.Fetcher = deps.PageFetcher
		return &crawl.Worker{Controller: controller}, nil
	}

	manager, err := rod.NewBrowserManager(rod.WithLogger(cfg.Logger))
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	matcher := goquery.NewMatcher()
	fetcher := gcslog.NewLoggingFetcher(gchttp.NewFetcher(), cfg.Logger)
	renderer := rod.NewLoggingRenderer(rod.NewRenderer(manager), cfg.Logger)

	static := crawl.NewStaticFetcher(fetcher, matcher)
	dynamic := crawl.NewDynamicFetcher(renderer, matcher,
		crawl.WithRetryPolicy(crawl.SessionRetryPolicy(manager)),
		crawl.WithFetchLogger(cfg.Logger),
	)

	controller.Fetcher = crawl.NewStrategyFetcher(static, dynamic, cfg.Logger)
	controller.Session = manager

	return &crawl.Worker{
		Controller: controller,
		Session:    manager,
		Close: func() error {
			return errors.Join(fetcher.Close(), manager.Close())
		},
	}, nil
}
