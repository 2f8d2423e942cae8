package guidecrawl

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// DefaultCacheTTL is how long extracted records stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores extracted records keyed by page URL.
// Caching is an optimization: callers treat every error as a miss.
type Cache interface {
	// Get returns the records cached for url.
	// Returns ENOTFOUND on a miss or after the entry expired.
	Get(ctx context.Context, url string) ([]*PageRecord, error)

	// Put stores records for url, replacing any previous entry.
	Put(ctx context.Context, url string, records []*PageRecord, ttl time.Duration) error
}

// NormalizeURL returns the form of rawURL used for cache identity:
// scheme and host are lowercased and the fragment is dropped.
// Unparseable input is returned unchanged.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
