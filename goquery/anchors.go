package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.AnchorParser = (*AnchorParser)(nil)

// AnchorParser enumerates a[href] elements in document order.
type AnchorParser struct{}

// NewAnchorParser creates a new AnchorParser.
func NewAnchorParser() *AnchorParser {
	return &AnchorParser{}
}

// Anchors returns every anchor in html with its href resolved against
// pageURL. Non-HTTP links (javascript:, mailto:, etc.) are skipped.
// Duplicates are kept.
func (p *AnchorParser) Anchors(html string, pageURL string) ([]guidecrawl.Anchor, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var anchors []guidecrawl.Anchor
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		anchors = append(anchors, guidecrawl.Anchor{
			Href: href,
			URL:  base.ResolveReference(ref).String(),
		})
	})

	return anchors, nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
