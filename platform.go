package guidecrawl

import "net/url"

// DefaultContentSelectors are applied when a platform configures none.
var DefaultContentSelectors = []string{"article", ".main-content", ".content", "main"}

// DefaultDocTerms are applied when a platform configures none.
var DefaultDocTerms = []string{"docs", "how", "guide"}

// Platform describes one documentation source: where to start, which
// elements hold content, and which URLs count as documentation.
type Platform struct {
	Name     string `json:"name"`
	StartURL string `json:"startUrl"`

	// ContentSelectors are tried in order; the first selector with at least
	// one match wins.
	ContentSelectors []string `json:"contentSelectors"`

	// DocTerms are substrings of which a candidate link must contain at
	// least one to be followed.
	DocTerms []string `json:"docTerms"`

	// Rendered marks sites that are fully client-rendered and must always
	// be fetched through the browser.
	Rendered bool `json:"rendered"`

	// MaxPages overrides the crawl page budget for this platform when > 0.
	MaxPages int `json:"maxPages"`
}

// Validate returns an error if the platform contains invalid fields.
func (p *Platform) Validate() error {
	if p.Name == "" {
		return Errorf(EINVALID, "platform name required")
	}
	if p.StartURL == "" {
		return Errorf(EINVALID, "platform %q: start URL required", p.Name)
	}
	u, err := url.Parse(p.StartURL)
	if err != nil || u.Host == "" {
		return Errorf(EINVALID, "platform %q: invalid start URL %q", p.Name, p.StartURL)
	}
	if p.MaxPages < 0 {
		return Errorf(EINVALID, "platform %q: max pages cannot be negative", p.Name)
	}
	return nil
}

// Selectors returns the content selectors, falling back to
// DefaultContentSelectors.
func (p *Platform) Selectors() []string {
	if len(p.ContentSelectors) == 0 {
		return DefaultContentSelectors
	}
	return p.ContentSelectors
}

// Terms returns the documentation terms, falling back to DefaultDocTerms.
func (p *Platform) Terms() []string {
	if len(p.DocTerms) == 0 {
		return DefaultDocTerms
	}
	return p.DocTerms
}

// DefaultPlatforms returns the built-in seed sources in crawl order.
// A fresh slice is returned on every call so callers cannot mutate the
// shared table.
func DefaultPlatforms() []*Platform {
	return []*Platform{
		{
			Name:             "segment",
			StartURL:         "https://segment.com/docs/?ref=nav",
			ContentSelectors: []string{".docs-content", "article", ".main-content", ".content", "main"},
			DocTerms:         []string{"docs", "guide", "tutorial", "how-to"},
		},
		{
			Name:             "mparticle",
			StartURL:         "https://docs.mparticle.com/",
			ContentSelectors: []string{".doc-content", ".main-content", "article", "main"},
			DocTerms:         []string{"docs", "guide", "tutorial", "how-to"},
		},
		{
			Name:             "lytics",
			StartURL:         "https://docs.lytics.com/",
			ContentSelectors: []string{".main-content", ".documentation-content", "article", "main"},
			DocTerms:         []string{"docs", "guide", "tutorial", "how-to"},
		},
		{
			Name:     "zeotap",
			StartURL: "https://docs.zeotap.com/home/en-us/",
			ContentSelectors: []string{
				"#html", ".main", ".page-content", "div[role='main']", ".docs-content",
				".documentation", ".doc-content", "#root", "body",
			},
			DocTerms: []string{"docs", "guide", "tutorial", "how-to", "implementation", "integration"},
			Rendered: true,
		},
	}
}
