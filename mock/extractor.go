package mock

import "github.com/fwojciec/guidecrawl"

var _ guidecrawl.ContentMatcher = (*ContentMatcher)(nil)

// ContentMatcher is a mock implementation of guidecrawl.ContentMatcher.
type ContentMatcher struct {
	MatchFn func(html string, selectors []string, bodyFallback bool) ([]string, error)
}

func (m *ContentMatcher) Match(html string, selectors []string, bodyFallback bool) ([]string, error) {
	return m.MatchFn(html, selectors, bodyFallback)
}

var _ guidecrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of guidecrawl.Extractor.
type Extractor struct {
	ExtractFn func(page *guidecrawl.Page, platform string) ([]*guidecrawl.PageRecord, error)
}

func (e *Extractor) Extract(page *guidecrawl.Page, platform string) ([]*guidecrawl.PageRecord, error) {
	return e.ExtractFn(page, platform)
}

var _ guidecrawl.AnchorParser = (*AnchorParser)(nil)

// AnchorParser is a mock implementation of guidecrawl.AnchorParser.
type AnchorParser struct {
	AnchorsFn func(html string, pageURL string) ([]guidecrawl.Anchor, error)
}

func (p *AnchorParser) Anchors(html string, pageURL string) ([]guidecrawl.Anchor, error) {
	return p.AnchorsFn(html, pageURL)
}
