package mock

import (
	"context"

	"github.com/fwojciec/guidecrawl"
)

var _ guidecrawl.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of guidecrawl.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*guidecrawl.Rendered, error)
}

func (r *Renderer) Render(ctx context.Context, url string) (*guidecrawl.Rendered, error) {
	return r.RenderFn(ctx, url)
}

var _ guidecrawl.Session = (*Session)(nil)

// Session is a mock implementation of guidecrawl.Session.
type Session struct {
	ResetFn  func(ctx context.Context) error
	ResetsFn func() int
}

func (s *Session) Reset(ctx context.Context) error {
	return s.ResetFn(ctx)
}

func (s *Session) Resets() int {
	return s.ResetsFn()
}
