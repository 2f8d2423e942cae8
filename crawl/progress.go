package crawl

import "github.com/fwojciec/guidecrawl"

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type     ProgressType
	Platform string
	URL      string
	Depth    int

	// Records is the number of records gained from URL.
	Records int

	// Strategy is the strategy chosen for URL.
	Strategy guidecrawl.Strategy

	// Run is set on ProgressPlatformFinished.
	Run *Run

	Err error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPlatformStarted ProgressType = iota
	ProgressDispatched
	ProgressCacheHit
	ProgressCacheMiss
	ProgressAccepted
	ProgressRejected
	ProgressFailed
	ProgressPlatformFinished
	ProgressPlatformFailed
)

// ProgressFunc is a callback for reporting crawl progress.
// It must not block. With Driver.Parallel above 1 it is called from
// several goroutines at once.
type ProgressFunc func(event ProgressEvent)
