package rod

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/guidecrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Render timing defaults.
const (
	DefaultPageLoadTimeout = 30 * time.Second
	DefaultBodyWait        = 20 * time.Second
	DefaultSettle          = 5 * time.Second
)

// Ensure Renderer implements guidecrawl.Renderer at compile time.
var _ guidecrawl.Renderer = (*Renderer)(nil)

// Renderer loads pages in the browser owned by a BrowserManager.
type Renderer struct {
	manager     *BrowserManager
	pageTimeout time.Duration
	bodyWait    time.Duration
	settle      time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithPageLoadTimeout bounds navigation.
func WithPageLoadTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.pageTimeout = d
	}
}

// WithBodyWait bounds the wait for the body element.
func WithBodyWait(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.bodyWait = d
	}
}

// WithSettle sets the pause that lets client-side rendering finish.
func WithSettle(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.settle = d
	}
}

// NewRenderer creates a Renderer on manager.
func NewRenderer(manager *BrowserManager, opts ...RendererOption) *Renderer {
	r := &Renderer{
		manager:     manager,
		pageTimeout: DefaultPageLoadTimeout,
		bodyWait:    DefaultBodyWait,
		settle:      DefaultSettle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render navigates to url, waits for the body and the settle interval, and
// returns the rendered HTML with the anchors of the live document.
func (r *Renderer) Render(ctx context.Context, url string) (*guidecrawl.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.manager.Browser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, sessionError(ctx, "opening page for", url, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	nav := page.Timeout(r.pageTimeout)
	err = nav.Navigate(url)
	nav.CancelTimeout()
	if err != nil {
		return nil, sessionError(ctx, "navigating to", url, err)
	}

	wait := page.Timeout(r.bodyWait)
	_, err = wait.Element("body")
	wait.CancelTimeout()
	if err != nil {
		return nil, sessionError(ctx, "waiting for body of", url, err)
	}

	if err := sleep(ctx, r.settle); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, sessionError(ctx, "reading HTML of", url, err)
	}

	anchors, err := liveAnchors(page)
	if err != nil {
		return nil, sessionError(ctx, "reading links of", url, err)
	}

	return &guidecrawl.Rendered{HTML: html, Anchors: anchors}, nil
}

// liveAnchors reads each anchor's raw href attribute and the absolute URL
// the browser resolved it to.
func liveAnchors(page *rod.Page) ([]guidecrawl.Anchor, error) {
	elements, err := page.Elements("a[href]")
	if err != nil {
		return nil, err
	}

	anchors := make([]guidecrawl.Anchor, 0, len(elements))
	for _, el := range elements {
		attr, err := el.Attribute("href")
		if err != nil || attr == nil {
			continue
		}
		prop, err := el.Property("href")
		if err != nil {
			continue
		}
		resolved := strings.TrimSpace(prop.Str())
		if !strings.HasPrefix(resolved, "http://") && !strings.HasPrefix(resolved, "https://") {
			continue
		}
		anchors = append(anchors, guidecrawl.Anchor{Href: *attr, URL: resolved})
	}
	return anchors, nil
}

// sessionError reports browser failures as ESESSION so they are retried
// after a reset. Cancellation is returned as is.
func sessionError(ctx context.Context, op, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return guidecrawl.Errorf(guidecrawl.ESESSION, "%s %s: %v", op, url, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
