package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fwojciec/guidecrawl/crawl"
	"github.com/fwojciec/guidecrawl/prometheus"
)

// reporter fans crawl progress out to the metrics and the spinner.
// Either may be nil.
type reporter struct {
	metrics *prometheus.Metrics

	mu      sync.Mutex
	spinner *spinner.Spinner
	pages   map[string]int
	records map[string]int
}

func newReporter(w io.Writer, showSpinner bool, metrics *prometheus.Metrics) *reporter {
	r := &reporter{
		metrics: metrics,
		pages:   make(map[string]int),
		records: make(map[string]int),
	}
	if showSpinner {
		r.spinner = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
		r.spinner.Suffix = " starting"
		r.spinner.Start()
	}
	return r
}

// Report handles one progress event. It is safe for concurrent use.
func (r *reporter) Report(e crawl.ProgressEvent) {
	r.metrics.Observe(e)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Type {
	case crawl.ProgressDispatched:
		r.pages[e.Platform]++
	case crawl.ProgressAccepted, crawl.ProgressCacheHit:
		r.records[e.Platform] += e.Records
	}

	if r.spinner == nil {
		return
	}
	switch e.Type {
	case crawl.ProgressPlatformStarted:
		r.spinner.Suffix = fmt.Sprintf(" %s: starting at %s", e.Platform, truncateURL(e.URL, 60))
	case crawl.ProgressDispatched:
		r.spinner.Suffix = fmt.Sprintf(" %s [%d pages, %d records] %s",
			e.Platform, r.pages[e.Platform], r.records[e.Platform], truncateURL(e.URL, 60))
	case crawl.ProgressPlatformFinished:
		r.spinner.Suffix = fmt.Sprintf(" %s: done, %d records", e.Platform, e.Records)
	case crawl.ProgressPlatformFailed:
		r.spinner.Suffix = fmt.Sprintf(" %s: failed", e.Platform)
	}
}

// Pages returns the number of pages dispatched for platform.
func (r *reporter) Pages(platform string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages[platform]
}

// Stop stops the spinner.
func (r *reporter) Stop() {
	if r.spinner != nil {
		r.spinner.Stop()
	}
}

// truncateURL shortens a URL for display, keeping the end which is more
// informative.
func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	if maxLen < 4 {
		return url[:maxLen]
	}
	return "..." + url[len(url)-maxLen+3:]
}
