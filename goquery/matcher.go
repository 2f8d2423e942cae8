// Package goquery implements markup handling for the crawler on top of
// goquery: content region matching, record extraction and anchor parsing.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.ContentMatcher = (*Matcher)(nil)

// Matcher isolates content regions using ordered CSS selectors.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match returns the outer HTML of every element matched by the first
// selector that matches anything. Invalid selectors match nothing.
func (m *Matcher) Match(html string, selectors []string, bodyFallback bool) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		return outerHTML(sel), nil
	}

	if bodyFallback {
		return outerHTML(doc.Find("body").First()), nil
	}
	return nil, nil
}

func outerHTML(sel *goquery.Selection) []string {
	var elements []string
	sel.Each(func(_ int, s *goquery.Selection) {
		h, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		elements = append(elements, h)
	})
	return elements
}
