package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/guidecrawl"
)

// LinkDiscoverer selects the links of a page worth crawling next.
type LinkDiscoverer struct {
	parser guidecrawl.AnchorParser
	rules  guidecrawl.LinkRules
}

// NewLinkDiscoverer creates a LinkDiscoverer. parser enumerates anchors of
// statically fetched pages.
func NewLinkDiscoverer(parser guidecrawl.AnchorParser, rules guidecrawl.LinkRules) *LinkDiscoverer {
	return &LinkDiscoverer{parser: parser, rules: rules}
}

// Discover returns up to the fan-out limit of unvisited documentation links
// on the seed's host, in the order they appear on the page. A link repeated
// on the page is returned each time; the visited set drops the repeats when
// they are dispatched.
func (d *LinkDiscoverer) Discover(page *guidecrawl.Page, seedHost string, platform *guidecrawl.Platform, visited guidecrawl.VisitedSet) []string {
	anchors := page.Anchors
	if anchors == nil {
		var err error
		anchors, err = d.parser.Anchors(page.HTML, page.URL)
		if err != nil {
			return nil
		}
	}

	limit := d.rules.Limit()
	terms := platform.Terms()

	var links []string
	for _, a := range anchors {
		if len(links) >= limit {
			break
		}
		if !sameHost(a.URL, seedHost) {
			continue
		}
		if visited.Contains(a.URL) {
			continue
		}
		if !d.rules.Allows(a, terms) {
			continue
		}
		links = append(links, a.URL)
	}
	return links
}

func sameHost(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), host)
}
