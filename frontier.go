package guidecrawl

import "context"

// VisitedSet records the URLs dispatched during one platform run.
type VisitedSet interface {
	// Insert adds url and reports whether it was absent.
	// Test and insert happen as one step.
	Insert(url string) bool

	// Contains reports whether url has been inserted.
	Contains(url string) bool

	// Len returns the number of inserted URLs.
	Len() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
