package mock

import (
	"context"

	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.VisitedSet = (*VisitedSet)(nil)

// VisitedSet is a mock implementation of guidecrawl.VisitedSet.
type VisitedSet struct {
	InsertFn   func(url string) bool
	ContainsFn func(url string) bool
	LenFn      func() int
}

func (s *VisitedSet) Insert(url string) bool {
	return s.InsertFn(url)
}

func (s *VisitedSet) Contains(url string) bool {
	return s.ContainsFn(url)
}

func (s *VisitedSet) Len() int {
	return s.LenFn()
}

var _ guidecrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of guidecrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
