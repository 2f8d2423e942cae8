package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/guidecrawl"
)

// Ensure LoggingRenderer implements guidecrawl.Renderer.
var _ guidecrawl.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   guidecrawl.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next guidecrawl.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (page *guidecrawl.Rendered, err error) {
	defer func(begin time.Time) {
		var bytes, links int
		if page != nil {
			bytes = len(page.HTML)
			links = len(page.Anchors)
		}
		r.logger.Debug("render",
			"url", url,
			"bytes", bytes,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}
