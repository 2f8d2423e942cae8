package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/crawl"
	"github.com/fwojciec/guidecrawl/goquery"
	"github.com/fwojciec/guidecrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedURL = "https://example.com/docs/"

// site maps a page URL to the URLs it links to.
type site map[string][]string

// fetcher serves the site as rendered pages and records fetch order.
func (s site) fetcher(fetched *[]string) *mock.PageFetcher {
	return &mock.PageFetcher{
		FetchPageFn: func(_ context.Context, url string, _ int, _ *guidecrawl.Platform) (*guidecrawl.Page, error) {
			*fetched = append(*fetched, url)
			anchors := []guidecrawl.Anchor{}
			for _, link := range s[url] {
				anchors = append(anchors, guidecrawl.Anchor{Href: link, URL: link})
			}
			return &guidecrawl.Page{URL: url, Elements: []string{"<main>x</main>"}, Anchors: anchors}, nil
		},
	}
}

// chain builds a site where page i links only to page i+1.
func chain(n int) site {
	s := site{}
	for i := 0; i < n; i++ {
		from := seedURL
		if i > 0 {
			from = fmt.Sprintf("%spage-%d", seedURL, i)
		}
		s[from] = []string{fmt.Sprintf("%spage-%d", seedURL, i+1)}
	}
	return s
}

func acceptAll() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(page *guidecrawl.Page, platform string) ([]*guidecrawl.PageRecord, error) {
			return []*guidecrawl.PageRecord{{URL: page.URL, Platform: platform}}, nil
		},
	}
}

func newController(fetcher guidecrawl.PageFetcher, extractor guidecrawl.Extractor) *crawl.Controller {
	return &crawl.Controller{
		Fetcher:   fetcher,
		Extractor: extractor,
		Links:     crawl.NewLinkDiscoverer(goquery.NewAnchorParser(), guidecrawl.DefaultLinkRules()),
		Logger:    discardLogger(),
	}
}

func recordURLs(records []*guidecrawl.PageRecord) []string {
	urls := make([]string, len(records))
	for i, r := range records {
		urls[i] = r.URL
	}
	return urls
}

func TestController_Crawl_DepthFirstOrder(t *testing.T) {
	t.Parallel()

	s := site{
		seedURL:         {seedURL + "a", seedURL + "b"},
		seedURL + "a":   {seedURL + "a/1", seedURL + "a/2"},
		seedURL + "a/1": {seedURL + "a/1/x"},
		seedURL + "b":   {seedURL + "b/1"},
	}
	var fetched []string
	c := newController(s.fetcher(&fetched), acceptAll())

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	want := []string{
		seedURL,
		seedURL + "a",
		seedURL + "a/1",
		seedURL + "a/1/x",
		seedURL + "a/2",
		seedURL + "b",
		seedURL + "b/1",
	}
	assert.Equal(t, want, fetched)
	assert.Equal(t, want, recordURLs(run.Records))
	assert.Equal(t, len(want), run.Budget.PagesVisited)
}

func TestController_Crawl_DepthLimit(t *testing.T) {
	t.Parallel()

	var fetched []string
	var depths []int
	s := chain(10)
	inner := s.fetcher(&fetched)
	fetcher := &mock.PageFetcher{
		FetchPageFn: func(ctx context.Context, url string, depth int, p *guidecrawl.Platform) (*guidecrawl.Page, error) {
			depths = append(depths, depth)
			return inner.FetchPage(ctx, url, depth, p)
		},
	}
	c := newController(fetcher, acceptAll())

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, depths)
	assert.Equal(t, crawl.DefaultMaxDepth, run.Budget.MaxDepth)
}

func TestController_Crawl_PageBudget(t *testing.T) {
	t.Parallel()

	s := site{seedURL: {}}
	for i := 0; i < 10; i++ {
		s[seedURL] = append(s[seedURL], fmt.Sprintf("%schild-%d", seedURL, i))
	}
	var fetched []string
	c := newController(s.fetcher(&fetched), acceptAll())
	platform := testPlatform()
	platform.MaxPages = 3

	run, err := c.Crawl(context.Background(), platform)

	require.NoError(t, err)
	assert.Equal(t, []string{seedURL, seedURL + "child-0", seedURL + "child-1"}, fetched)
	assert.Equal(t, 3, run.Budget.PagesVisited)
	assert.Equal(t, 3, run.Budget.MaxPages)
}

func TestController_Crawl_VisitsEachURLOnce(t *testing.T) {
	t.Parallel()

	s := site{
		seedURL:       {seedURL + "a", seedURL + "b"},
		seedURL + "a": {seedURL + "shared", seedURL},
		seedURL + "b": {seedURL + "shared", seedURL + "a"},
	}
	var fetched []string
	c := newController(s.fetcher(&fetched), acceptAll())

	_, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []string{seedURL, seedURL + "a", seedURL + "shared", seedURL + "b"}, fetched)
}

func TestController_Crawl_CacheHitSkipsFetchAndLinks(t *testing.T) {
	t.Parallel()

	s := site{
		seedURL:       {seedURL + "a", seedURL + "b"},
		seedURL + "a": {seedURL + "a/1"},
	}
	cachedRecord := &guidecrawl.PageRecord{URL: seedURL + "a", Title: "cached"}
	var puts []string
	cache := &mock.Cache{
		GetFn: func(_ context.Context, url string) ([]*guidecrawl.PageRecord, error) {
			if url == seedURL+"a" {
				return []*guidecrawl.PageRecord{cachedRecord}, nil
			}
			return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "miss")
		},
		PutFn: func(_ context.Context, url string, _ []*guidecrawl.PageRecord, ttl time.Duration) error {
			assert.Equal(t, guidecrawl.DefaultCacheTTL, ttl)
			puts = append(puts, url)
			return nil
		},
	}
	var fetched []string
	c := newController(s.fetcher(&fetched), acceptAll())
	c.Cache = cache

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []string{seedURL, seedURL + "b"}, fetched)
	assert.Equal(t, []string{seedURL, seedURL + "b"}, puts)
	assert.Same(t, cachedRecord, run.Records[1])
	assert.Equal(t, 3, run.Budget.PagesVisited)
}

func TestController_Crawl_CacheErrorsAreMisses(t *testing.T) {
	t.Parallel()

	cache := &mock.Cache{
		GetFn: func(context.Context, string) ([]*guidecrawl.PageRecord, error) {
			return nil, errors.New("connection refused")
		},
		PutFn: func(context.Context, string, []*guidecrawl.PageRecord, time.Duration) error {
			return errors.New("connection refused")
		},
	}
	var fetched []string
	c := newController(site{}.fetcher(&fetched), acceptAll())
	c.Cache = cache

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []string{seedURL}, fetched)
	assert.Len(t, run.Records, 1)
}

func TestController_Crawl_RejectedPagesAreNotCachedOrFollowed(t *testing.T) {
	t.Parallel()

	s := site{seedURL: {seedURL + "a"}}
	puts := 0
	cache := &mock.Cache{
		GetFn: func(context.Context, string) ([]*guidecrawl.PageRecord, error) {
			return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "miss")
		},
		PutFn: func(context.Context, string, []*guidecrawl.PageRecord, time.Duration) error {
			puts++
			return nil
		},
	}
	rejectAll := &mock.Extractor{
		ExtractFn: func(*guidecrawl.Page, string) ([]*guidecrawl.PageRecord, error) {
			return nil, nil
		},
	}
	var fetched []string
	c := newController(s.fetcher(&fetched), rejectAll)
	c.Cache = cache

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []string{seedURL}, fetched)
	assert.Zero(t, puts)
	assert.NotNil(t, run.Records)
	assert.Empty(t, run.Records)
}

func TestController_Crawl_FetchFailureContinuesWithSiblings(t *testing.T) {
	t.Parallel()

	s := site{seedURL: {seedURL + "broken", seedURL + "ok"}}
	var fetched []string
	inner := s.fetcher(&fetched)
	fetcher := &mock.PageFetcher{
		FetchPageFn: func(ctx context.Context, url string, depth int, p *guidecrawl.Platform) (*guidecrawl.Page, error) {
			if url == seedURL+"broken" {
				fetched = append(fetched, url)
				return nil, sessionErr()
			}
			return inner.FetchPage(ctx, url, depth, p)
		},
	}
	var events []crawl.ProgressType
	c := newController(fetcher, acceptAll())
	c.Progress = func(e crawl.ProgressEvent) { events = append(events, e.Type) }

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []string{seedURL, seedURL + "broken", seedURL + "ok"}, fetched)
	assert.Equal(t, []string{seedURL, seedURL + "ok"}, recordURLs(run.Records))
	assert.Contains(t, events, crawl.ProgressFailed)
}

func TestController_Crawl_PreventiveReset(t *testing.T) {
	t.Parallel()

	var fetched []string
	var resetAt []int
	resets := 0
	session := &mock.Session{
		ResetFn: func(context.Context) error {
			resetAt = append(resetAt, len(fetched))
			resets++
			return nil
		},
		ResetsFn: func() int { return resets },
	}
	c := newController(chain(30).fetcher(&fetched), acceptAll())
	c.Session = session
	c.MaxDepth = 50

	run, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Len(t, fetched, 31)
	assert.Equal(t, []int{20}, resetAt, "one reset after 20 dispatches, before the 21st fetch")
	assert.Equal(t, 1, run.Budget.DriverResets)
}

func TestController_Crawl_NoResetOnCacheHit(t *testing.T) {
	t.Parallel()

	resets := 0
	session := &mock.Session{
		ResetFn: func(context.Context) error {
			resets++
			return nil
		},
		ResetsFn: func() int { return resets },
	}
	twentyFirst := fmt.Sprintf("%spage-%d", seedURL, 20)
	cache := &mock.Cache{
		GetFn: func(_ context.Context, url string) ([]*guidecrawl.PageRecord, error) {
			if url == twentyFirst {
				return []*guidecrawl.PageRecord{{URL: url}}, nil
			}
			return nil, guidecrawl.Errorf(guidecrawl.ENOTFOUND, "miss")
		},
		PutFn: func(context.Context, string, []*guidecrawl.PageRecord, time.Duration) error { return nil },
	}
	var fetched []string
	c := newController(chain(30).fetcher(&fetched), acceptAll())
	c.Session = session
	c.Cache = cache
	c.MaxDepth = 50

	_, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Len(t, fetched, 20, "the cache hit ends the chain")
	assert.Zero(t, resets)
}

func TestController_Crawl_WaitsOnRateLimiter(t *testing.T) {
	t.Parallel()

	var hosts []string
	limiter := &mock.DomainLimiter{
		WaitFn: func(_ context.Context, domain string) error {
			hosts = append(hosts, domain)
			return nil
		},
	}
	var fetched []string
	c := newController(site{seedURL: {seedURL + "a"}}.fetcher(&fetched), acceptAll())
	c.RateLimiter = limiter

	_, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "example.com"}, hosts)
}

func TestController_Crawl_CancellationReturnsPartialRecords(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	extractor := &mock.Extractor{
		ExtractFn: func(page *guidecrawl.Page, platform string) ([]*guidecrawl.PageRecord, error) {
			cancel()
			return []*guidecrawl.PageRecord{{URL: page.URL, Platform: platform}}, nil
		},
	}
	var fetched []string
	c := newController(chain(5).fetcher(&fetched), extractor)

	run, err := c.Crawl(ctx, testPlatform())

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, run)
	assert.Equal(t, []string{seedURL}, recordURLs(run.Records))
	assert.Equal(t, []string{seedURL}, fetched)
}

func TestController_Crawl_InvalidPlatform(t *testing.T) {
	t.Parallel()

	c := newController(site{}.fetcher(new([]string)), acceptAll())

	run, err := c.Crawl(context.Background(), &guidecrawl.Platform{Name: "broken"})

	assert.Nil(t, run)
	assert.Equal(t, guidecrawl.EINVALID, guidecrawl.ErrorCode(err))
}

func TestController_Crawl_ReportsProgress(t *testing.T) {
	t.Parallel()

	var events []crawl.ProgressEvent
	var fetched []string
	c := newController(site{}.fetcher(&fetched), acceptAll())
	c.Progress = func(e crawl.ProgressEvent) { events = append(events, e) }

	_, err := c.Crawl(context.Background(), testPlatform())

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, crawl.ProgressDispatched, events[0].Type)
	assert.Equal(t, guidecrawl.StrategyStatic, events[0].Strategy)
	assert.Equal(t, crawl.ProgressAccepted, events[1].Type)
	assert.Equal(t, 1, events[1].Records)
}
