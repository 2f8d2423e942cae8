package guidecrawl

import "strings"

// DefaultMaxLinks caps the links followed from a single page.
const DefaultMaxLinks = 10

// Anchor is a link candidate found on a page.
type Anchor struct {
	// Href is the attribute value as written in the markup.
	Href string
	// URL is Href resolved against the page URL.
	URL string
}

// LinkRules filters link candidates that are not documentation pages.
type LinkRules struct {
	ExcludedExtensions []string
	ExcludedKeywords   []string
	MaxLinks           int
}

// DefaultLinkRules returns the filters used by the crawler.
func DefaultLinkRules() LinkRules {
	return LinkRules{
		ExcludedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".zip", ".js", ".css", ".xml", ".ico"},
		ExcludedKeywords:   []string{"login", "signup", "signin", "register", "twitter", "facebook", "linkedin", "community", "#"},
		MaxLinks:           DefaultMaxLinks,
	}
}

// Allows reports whether the anchor passes the extension, keyword and
// documentation-term filters. Host and visited checks are the caller's.
func (r LinkRules) Allows(a Anchor, docTerms []string) bool {
	lowerURL := strings.ToLower(a.URL)
	for _, ext := range r.ExcludedExtensions {
		if strings.HasSuffix(lowerURL, ext) {
			return false
		}
	}

	href := a.Href
	if href == "" {
		href = a.URL
	}
	lowerHref := strings.ToLower(href)
	for _, kw := range r.ExcludedKeywords {
		if strings.Contains(lowerHref, kw) {
			return false
		}
	}

	for _, term := range docTerms {
		if strings.Contains(lowerURL, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Limit returns the per-page fan-out, falling back to DefaultMaxLinks.
func (r LinkRules) Limit() int {
	if r.MaxLinks <= 0 {
		return DefaultMaxLinks
	}
	return r.MaxLinks
}
