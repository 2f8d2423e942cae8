package goquery_test

import (
	"testing"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const relevantMain = `<main><p>How to configure the integration for your first workspace</p></main>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("accepts relevant content and derives metadata from URL", func(t *testing.T) {
		t.Parallel()

		page := &guidecrawl.Page{
			URL:      "https://example.com/docs",
			HTML:     `<html><head><title>Docs Home</title></head><body>` + relevantMain + `</body></html>`,
			Elements: []string{relevantMain},
		}

		records, err := goquery.NewExtractor().Extract(page, "example")

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "https://example.com/docs", records[0].URL)
		assert.Equal(t, "Docs Home", records[0].Title)
		assert.Equal(t, "example", records[0].Platform)
		assert.Equal(t, "Docs", records[0].Category)
		assert.Equal(t, "How to configure the integration for your first workspace", records[0].Content)
		assert.Equal(t, relevantMain, records[0].HTML)
	})

	t.Run("rejects short or irrelevant content", func(t *testing.T) {
		t.Parallel()

		page := &guidecrawl.Page{
			URL:  "https://example.com/docs",
			HTML: `<html><body></body></html>`,
			Elements: []string{
				`<main>How to</main>`,
				`<main>This paragraph talks at length about pricing tiers and nothing else.</main>`,
			},
		}

		records, err := goquery.NewExtractor().Extract(page, "example")

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("keeps one record per accepted element", func(t *testing.T) {
		t.Parallel()

		second := `<article>A walkthrough covering every destination you can connect today.</article>`
		page := &guidecrawl.Page{
			URL:      "https://example.com/getting-started/sources",
			HTML:     `<html><body><h1>Sources</h1></body></html>`,
			Elements: []string{relevantMain, `<article>too short</article>`, second},
		}

		records, err := goquery.NewExtractor().Extract(page, "example")

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, second, records[1].HTML)
		assert.Equal(t, "Sources", records[1].Title)
		assert.Equal(t, "Getting Started", records[1].Category)
	})

	t.Run("uses custom relevance", func(t *testing.T) {
		t.Parallel()

		page := &guidecrawl.Page{
			URL:      "https://example.com/",
			HTML:     `<html></html>`,
			Elements: []string{`<main>recipe</main>`},
		}
		e := goquery.NewExtractor(goquery.WithRelevance(guidecrawl.Relevance{MinLength: 3, Phrases: []string{"recipe"}}))

		records, err := e.Extract(page, "example")

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, goquery.NoTitle, records[0].Title)
		assert.Equal(t, goquery.GeneralCategory, records[0].Category)
	})
}

func TestExtractor_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "prefers document title heading",
			html: `<h1>Generic</h1><h1 class="document-title">Specific</h1>`,
			want: "Specific",
		},
		{
			name: "uses heading inside main before other headings",
			html: `<header><h1 class="logo"></h1></header><main><h1>Main Heading</h1></main>`,
			want: "Main Heading",
		},
		{
			name: "skips empty headings",
			html: `<h1> </h1><h1>Second   heading</h1>`,
			want: "Second heading",
		},
		{
			name: "falls back to title tag",
			html: `<head><title> Page Title </title></head><body><p>no headings</p></body>`,
			want: "Page Title",
		},
		{
			name: "defaults when nothing found",
			html: `<body><p>no headings</p></body>`,
			want: goquery.NoTitle,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &guidecrawl.Page{
				URL:      "https://example.com/docs/a",
				HTML:     tt.html,
				Elements: []string{relevantMain},
			}
			records, err := goquery.NewExtractor().Extract(page, "p")

			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Title)
		})
	}
}

func TestExtractor_Category(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		html string
		want string
	}{
		{
			name: "joins breadcrumb items",
			url:  "https://example.com/docs/a",
			html: `<ol class="breadcrumb"><li>Docs</li><li> Sources </li><li>Web</li></ol>`,
			want: "Docs > Sources > Web",
		},
		{
			name: "uses first breadcrumb container only",
			url:  "https://example.com/docs/a",
			html: `<ul class="breadcrumbs"><li>One</li></ul><ul class="doc-breadcrumb"><li>Two</li></ul>`,
			want: "One",
		},
		{
			name: "falls back to first path segment when breadcrumbs are empty",
			url:  "https://example.com/api-reference/events",
			html: `<nav class="breadcrumb"></nav>`,
			want: "Api Reference",
		},
		{
			name: "uses single path segment",
			url:  "https://example.com/docs/",
			html: ``,
			want: "Docs",
		},
		{
			name: "defaults to General for root path",
			url:  "https://example.com/",
			html: ``,
			want: "General",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &guidecrawl.Page{
				URL:      tt.url,
				HTML:     "<html><body>" + tt.html + "</body></html>",
				Elements: []string{relevantMain},
			}
			records, err := goquery.NewExtractor().Extract(page, "p")

			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Category)
		})
	}
}
