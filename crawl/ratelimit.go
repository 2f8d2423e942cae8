package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/guidecrawl"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the politeness limit applied to each host.
const DefaultRequestsPerSecond = 1.0

var _ guidecrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-host rate limiting using token buckets.
// Hosts are limited independently, so parallel platform crawls on different
// sites do not slow each other down.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host. Each host gets a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
