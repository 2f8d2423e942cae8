package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/guidecrawl"
)

var (
	_ guidecrawl.PageFetcher = (*StaticFetcher)(nil)
	_ guidecrawl.PageFetcher = (*DynamicFetcher)(nil)
	_ guidecrawl.PageFetcher = (*StrategyFetcher)(nil)
)

// StaticFetcher fetches raw HTML without executing scripts.
type StaticFetcher struct {
	fetcher guidecrawl.Fetcher
	matcher guidecrawl.ContentMatcher
}

// NewStaticFetcher creates a StaticFetcher.
func NewStaticFetcher(fetcher guidecrawl.Fetcher, matcher guidecrawl.ContentMatcher) *StaticFetcher {
	return &StaticFetcher{fetcher: fetcher, matcher: matcher}
}

// FetchPage returns ENOCONTENT when none of the platform's selectors match.
// The document body is never used as a fallback.
func (f *StaticFetcher) FetchPage(ctx context.Context, url string, _ int, platform *guidecrawl.Platform) (*guidecrawl.Page, error) {
	html, err := f.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	elements, err := f.matcher.Match(html, platform.Selectors(), false)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, guidecrawl.Errorf(guidecrawl.ENOCONTENT, "no content region on %s", url)
	}

	return &guidecrawl.Page{
		URL:      url,
		HTML:     html,
		Elements: elements,
		Strategy: guidecrawl.StrategyStatic,
	}, nil
}

// DynamicFetcher renders pages in a browser session.
type DynamicFetcher struct {
	renderer guidecrawl.Renderer
	matcher  guidecrawl.ContentMatcher
	retry    RetryPolicy
	logger   *slog.Logger
}

// DynamicOption configures a DynamicFetcher.
type DynamicOption func(*DynamicFetcher)

// WithRetryPolicy replaces the retry policy. Without it nothing is retried.
func WithRetryPolicy(p RetryPolicy) DynamicOption {
	return func(f *DynamicFetcher) {
		f.retry = p
	}
}

// WithFetchLogger sets the logger for failed attempts.
func WithFetchLogger(logger *slog.Logger) DynamicOption {
	return func(f *DynamicFetcher) {
		f.logger = logger
	}
}

// NewDynamicFetcher creates a DynamicFetcher.
func NewDynamicFetcher(renderer guidecrawl.Renderer, matcher guidecrawl.ContentMatcher, opts ...DynamicOption) *DynamicFetcher {
	f := &DynamicFetcher{
		renderer: renderer,
		matcher:  matcher,
		logger:   discardLogger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage renders url and isolates its content regions, falling back to
// the document body. The returned page carries the live anchors.
func (f *DynamicFetcher) FetchPage(ctx context.Context, url string, _ int, platform *guidecrawl.Platform) (*guidecrawl.Page, error) {
	var rendered *guidecrawl.Rendered
	attempt := 0
	err := f.retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		r, err := f.renderer.Render(ctx, url)
		if err != nil {
			f.logger.Warn("render failed", "url", url, "attempt", attempt, "err", err)
			return err
		}
		rendered = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	elements, err := f.matcher.Match(rendered.HTML, platform.Selectors(), true)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, guidecrawl.Errorf(guidecrawl.ENOCONTENT, "no content region on %s", url)
	}

	anchors := rendered.Anchors
	if anchors == nil {
		anchors = []guidecrawl.Anchor{}
	}

	return &guidecrawl.Page{
		URL:      url,
		HTML:     rendered.HTML,
		Elements: elements,
		Anchors:  anchors,
		Strategy: guidecrawl.StrategyDynamic,
	}, nil
}

// StrategyFetcher applies ChooseStrategy. Pages chosen for static fetching
// fall back to rendering on any static failure.
type StrategyFetcher struct {
	static  guidecrawl.PageFetcher
	dynamic guidecrawl.PageFetcher
	logger  *slog.Logger
}

// NewStrategyFetcher creates a StrategyFetcher. logger may be nil.
func NewStrategyFetcher(static, dynamic guidecrawl.PageFetcher, logger *slog.Logger) *StrategyFetcher {
	if logger == nil {
		logger = discardLogger
	}
	return &StrategyFetcher{static: static, dynamic: dynamic, logger: logger}
}

// FetchPage fetches url with the strategy chosen for depth.
func (f *StrategyFetcher) FetchPage(ctx context.Context, url string, depth int, platform *guidecrawl.Platform) (*guidecrawl.Page, error) {
	if ChooseStrategy(platform, depth) == guidecrawl.StrategyStatic {
		page, err := f.static.FetchPage(ctx, url, depth, platform)
		if err == nil {
			return page, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Debug("static fetch failed, rendering", "url", url, "err", err)
	}
	return f.dynamic.FetchPage(ctx, url, depth, platform)
}
