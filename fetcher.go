package guidecrawl

import "context"

// Fetcher retrieves raw HTML from URLs without rendering.
type Fetcher interface {
	// Fetch retrieves the HTML at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources.
	Close() error
}

// Rendered is the state of a page after client-side rendering.
type Rendered struct {
	HTML    string
	Anchors []Anchor
}

// Renderer loads pages in a browser session and waits for rendering.
// Browser and session failures are reported with code ESESSION.
type Renderer interface {
	Render(ctx context.Context, url string) (*Rendered, error)
}

// Session owns the browser used by a Renderer.
type Session interface {
	// Reset tears down the current browser and starts a new one.
	// It returns only after the new browser is ready.
	Reset(ctx context.Context) error

	// Resets returns how many times Reset has been called.
	Resets() int
}

// Strategy selects how a page is fetched.
type Strategy int

// Fetch strategies.
const (
	StrategyStatic Strategy = iota
	StrategyDynamic
)

func (s Strategy) String() string {
	switch s {
	case StrategyStatic:
		return "static"
	case StrategyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Page is a fetched page with its content regions isolated.
type Page struct {
	URL  string
	HTML string

	// Elements holds the outer HTML of each matched content region,
	// in document order.
	Elements []string

	// Anchors lists links read from the live browser session.
	// It is nil for pages fetched statically.
	Anchors []Anchor

	Strategy Strategy
}

// PageFetcher retrieves a page and isolates its content regions.
type PageFetcher interface {
	// FetchPage retrieves url found at the given crawl depth.
	// It returns ENOCONTENT when no content region was found.
	FetchPage(ctx context.Context, url string, depth int, platform *Platform) (*Page, error)
}

// ContentMatcher isolates content regions in HTML.
type ContentMatcher interface {
	// Match applies selectors in order and returns the outer HTML of the
	// matches of the first selector that matches anything. When nothing
	// matches and bodyFallback is set, the document body is returned.
	Match(html string, selectors []string, bodyFallback bool) ([]string, error)
}

// Extractor turns a fetched page into page records.
type Extractor interface {
	// Extract returns one record per relevant content region.
	// An empty result is a rejection, not an error.
	Extract(page *Page, platform string) ([]*PageRecord, error)
}

// AnchorParser enumerates links in HTML markup.
type AnchorParser interface {
	// Anchors returns the anchors of html with hrefs resolved against pageURL.
	Anchors(html string, pageURL string) ([]Anchor, error)
}
