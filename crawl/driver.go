package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/guidecrawl"
	"golang.org/x/sync/errgroup"
)

// DefaultPlatformPause is the pause after the session reset that separates
// two platforms.
const DefaultPlatformPause = 5 * time.Second

// Worker is a controller with the session it owns exclusively.
type Worker struct {
	Controller *Controller
	Session    guidecrawl.Session

	// Close releases the worker's resources. It may be nil.
	Close func() error
}

// Driver crawls a list of platforms and persists the results.
type Driver struct {
	Platforms []*guidecrawl.Platform
	Stores    []guidecrawl.RecordStore

	// NewWorker creates a worker. It is called once per parallel slot
	// before any crawling starts; an error aborts the run.
	NewWorker func() (*Worker, error)

	// Parallel is the number of platforms crawled at once. Defaults to 1.
	Parallel int

	// Pause follows the session reset between platforms.
	// Defaults to DefaultPlatformPause; a negative value disables it.
	Pause time.Duration

	Logger   *slog.Logger
	Progress ProgressFunc
}

// Run crawls every platform, saving each platform's records to every store
// as soon as its crawl ends, then saves the consolidated results.
//
// A failed platform is logged and left out of the results. Store errors are
// returned after all platforms ran. When ctx is canceled the records
// gathered so far are still saved and ctx.Err() is returned.
func (d *Driver) Run(ctx context.Context) (map[string][]*guidecrawl.PageRecord, error) {
	if len(d.Platforms) == 0 {
		return nil, guidecrawl.Errorf(guidecrawl.EINVALID, "no platforms to crawl")
	}

	slots := d.Parallel
	if slots <= 0 {
		slots = 1
	}
	if slots > len(d.Platforms) {
		slots = len(d.Platforms)
	}

	pool := make(chan *Worker, slots)
	workers := make([]*Worker, 0, slots)
	defer func() {
		for _, w := range workers {
			if w.Close == nil {
				continue
			}
			if err := w.Close(); err != nil {
				d.logger().Warn("closing worker", "err", err)
			}
		}
	}()
	for i := 0; i < slots; i++ {
		w, err := d.NewWorker()
		if err != nil {
			return nil, fmt.Errorf("starting worker: %w", err)
		}
		workers = append(workers, w)
		pool <- w
	}

	// Persistence outlives cancellation so partial results are kept.
	saveCtx := context.WithoutCancel(ctx)

	var (
		mu        sync.Mutex
		results   = make(map[string][]*guidecrawl.PageRecord)
		storeErrs []error
		remaining atomic.Int64
	)
	remaining.Store(int64(len(d.Platforms)))

	var g errgroup.Group
	g.SetLimit(slots)
	for _, platform := range d.Platforms {
		platform := platform
		g.Go(func() error {
			w := <-pool
			defer func() { pool <- w }()

			remaining.Add(-1)
			if ctx.Err() != nil {
				return nil
			}

			records, ok := d.crawlPlatform(ctx, w, platform)
			if ok {
				errs := d.savePlatform(saveCtx, platform.Name, records)
				mu.Lock()
				results[platform.Name] = records
				storeErrs = append(storeErrs, errs...)
				mu.Unlock()
			}

			if remaining.Load() > 0 && ctx.Err() == nil {
				d.separate(ctx, w)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, store := range d.Stores {
		if err := store.SaveAll(saveCtx, results); err != nil {
			storeErrs = append(storeErrs, fmt.Errorf("saving consolidated results: %w", err))
		}
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errors.Join(storeErrs...)
}

// crawlPlatform reports false when the platform failed and has no results.
func (d *Driver) crawlPlatform(ctx context.Context, w *Worker, platform *guidecrawl.Platform) ([]*guidecrawl.PageRecord, bool) {
	d.logger().Info("platform started", "platform", platform.Name, "url", platform.StartURL)
	d.progress(ProgressEvent{Type: ProgressPlatformStarted, Platform: platform.Name, URL: platform.StartURL})

	run, err := w.Controller.Crawl(ctx, platform)
	if run == nil {
		d.logger().Error("platform failed", "platform", platform.Name, "err", err)
		d.progress(ProgressEvent{Type: ProgressPlatformFailed, Platform: platform.Name, Err: err})
		return nil, false
	}
	if err != nil {
		d.logger().Warn("platform interrupted", "platform", platform.Name, "err", err)
	}

	d.logger().Info("platform finished",
		"platform", platform.Name,
		"records", len(run.Records),
		"pages", run.Budget.PagesVisited,
		"resets", run.Budget.DriverResets,
		"duration", run.Duration,
	)
	d.progress(ProgressEvent{Type: ProgressPlatformFinished, Platform: platform.Name, Records: len(run.Records), Run: run, Err: err})
	return run.Records, true
}

func (d *Driver) savePlatform(ctx context.Context, platform string, records []*guidecrawl.PageRecord) []error {
	var errs []error
	for _, store := range d.Stores {
		if err := store.SavePlatform(ctx, platform, records); err != nil {
			d.logger().Error("saving platform", "platform", platform, "err", err)
			errs = append(errs, fmt.Errorf("saving %s: %w", platform, err))
		}
	}
	return errs
}

// separate resets the worker's session and pauses so the next platform
// starts on a fresh browser.
func (d *Driver) separate(ctx context.Context, w *Worker) {
	if w.Session != nil {
		if err := w.Session.Reset(ctx); err != nil {
			d.logger().Warn("session reset between platforms failed", "err", err)
		}
	}

	pause := d.Pause
	if pause == 0 {
		pause = DefaultPlatformPause
	}
	_ = wait(ctx, pause)
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return discardLogger
}

func (d *Driver) progress(e ProgressEvent) {
	if d.Progress != nil {
		d.Progress(e)
	}
}
