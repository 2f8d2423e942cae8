// Package bloom provides the crawler's visited set backed by a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/guidecrawl"
)

// Ensure Set implements guidecrawl.VisitedSet at compile time.
var _ guidecrawl.VisitedSet = (*Set)(nil)

// Set is a visited set backed by a Bloom filter.
// False negatives are impossible, so a URL is never dispatched twice; a
// false positive skips a URL that was never visited. Size the filter well
// above the page budget to keep that rate negligible.
//
// Set is safe for concurrent use.
type Set struct {
	mu    sync.Mutex
	f     *bloom.BloomFilter
	count int
}

// NewSet creates a Set sized for n expected URLs with the given false
// positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Insert adds url and reports whether it was absent. URLs are compared in
// their normalized form.
func (s *Set) Insert(url string) bool {
	key := guidecrawl.NormalizeURL(url)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f.TestAndAddString(key) {
		return false
	}
	s.count++
	return true
}

// Contains reports whether url might have been inserted.
func (s *Set) Contains(url string) bool {
	key := guidecrawl.NormalizeURL(url)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestString(key)
}

// Len returns the number of successful inserts.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
