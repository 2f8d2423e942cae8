package guidecrawl

import "context"

// PageRecord is one accepted content region of a documentation page.
// The JSON shape is consumed by the question/answer preprocessing step.
type PageRecord struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Category string `json:"category"`
	Content  string `json:"content"` // plain text
	HTML     string `json:"html"`
}

// RecordStore persists crawl results.
type RecordStore interface {
	// SavePlatform persists the records of a single platform run.
	// An empty slice is valid and must be persisted as such.
	SavePlatform(ctx context.Context, platform string, records []*PageRecord) error

	// SaveAll persists the consolidated results keyed by platform name.
	SaveAll(ctx context.Context, all map[string][]*PageRecord) error
}
