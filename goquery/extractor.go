package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/guidecrawl"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback values for page metadata.
const (
	NoTitle         = "No title found"
	GeneralCategory = "General"
)

// DefaultTitleSelectors are tried in order before the <title> tag.
var DefaultTitleSelectors = []string{
	"h1.document-title",
	"h1.page-title",
	".document-title h1",
	"main h1",
	"h1",
}

// DefaultBreadcrumbSelector matches breadcrumb navigation containers.
const DefaultBreadcrumbSelector = ".breadcrumbs, .breadcrumb, .doc-breadcrumb"

var _ guidecrawl.Extractor = (*Extractor)(nil)

// Extractor turns content regions into page records, keeping only regions
// that pass the relevance filter.
type Extractor struct {
	relevance          guidecrawl.Relevance
	titleSelectors     []string
	breadcrumbSelector string
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRelevance replaces the default relevance filter.
func WithRelevance(r guidecrawl.Relevance) ExtractorOption {
	return func(e *Extractor) {
		e.relevance = r
	}
}

// WithTitleSelectors replaces DefaultTitleSelectors.
func WithTitleSelectors(selectors []string) ExtractorOption {
	return func(e *Extractor) {
		e.titleSelectors = selectors
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		relevance:          guidecrawl.DefaultRelevance(),
		titleSelectors:     DefaultTitleSelectors,
		breadcrumbSelector: DefaultBreadcrumbSelector,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one record per relevant content region of page.
// Page metadata is parsed only when at least one region is accepted.
func (e *Extractor) Extract(page *guidecrawl.Page, platform string) ([]*guidecrawl.PageRecord, error) {
	var records []*guidecrawl.PageRecord
	var title, category string

	for _, element := range page.Elements {
		text, err := FragmentText(element)
		if err != nil {
			return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "failed to parse content: %v", err)
		}
		if !e.relevance.Relevant(text) {
			continue
		}

		if records == nil {
			title, category, err = e.metadata(page)
			if err != nil {
				return nil, err
			}
		}

		records = append(records, &guidecrawl.PageRecord{
			URL:      page.URL,
			Title:    title,
			Platform: platform,
			Category: category,
			Content:  text,
			HTML:     element,
		})
	}

	return records, nil
}

func (e *Extractor) metadata(page *guidecrawl.Page) (title, category string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return "", "", guidecrawl.Errorf(guidecrawl.EINVALID, "failed to parse HTML: %v", err)
	}
	return e.title(doc), e.category(doc, page.URL), nil
}

// title returns the first non-empty heading, then the <title> text.
func (e *Extractor) title(doc *goquery.Document) string {
	for _, selector := range e.titleSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = collapse(s.Text())
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return NoTitle
}

// category prefers breadcrumbs, then the first URL path segment.
func (e *Extractor) category(doc *goquery.Document, pageURL string) string {
	var crumbs []string
	doc.Find(e.breadcrumbSelector).First().Find("li").Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			crumbs = append(crumbs, t)
		}
	})
	if len(crumbs) > 0 {
		return strings.Join(crumbs, " > ")
	}
	return categoryFromURL(pageURL)
}

func categoryFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return GeneralCategory
	}
	segment, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if segment == "" {
		return GeneralCategory
	}
	// A Caser is not safe for concurrent use.
	return cases.Title(language.English).String(strings.ReplaceAll(segment, "-", " "))
}
