// Package rod renders pages in headless Chrome through go-rod.
package rod

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/guidecrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultResetSettle is the pause after a browser restart before it is
// handed out again.
const DefaultResetSettle = 2 * time.Second

// Ensure BrowserManager implements guidecrawl.Session at compile time.
var _ guidecrawl.Session = (*BrowserManager)(nil)

// BrowserManager owns the headless Chrome process used for rendering.
// Long sessions degrade, so callers replace the browser with Reset.
//
// BrowserManager is safe for concurrent use. Reset holds the lock until the
// new browser has settled, so no render starts on a half-initialized session.
type BrowserManager struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	settle   time.Duration
	logger   *slog.Logger
	resets   atomic.Int64
	mu       sync.Mutex
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithResetSettle sets the pause after each Reset. Defaults to 2s.
func WithResetSettle(d time.Duration) ManagerOption {
	return func(bm *BrowserManager) {
		bm.settle = d
	}
}

// WithLogger sets the logger for teardown failures.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager creates a BrowserManager and launches the browser.
// Close must be called when the BrowserManager is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		settle: DefaultResetSettle,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.Initialize(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Initialize launches the browser if none is running.
func (bm *BrowserManager) Initialize() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.browser != nil {
		return nil
	}
	return bm.launchBrowser()
}

// Browser returns the current browser.
func (bm *BrowserManager) Browser() (*rod.Browser, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.browser == nil {
		return nil, guidecrawl.Errorf(guidecrawl.ESESSION, "browser not initialized")
	}
	return bm.browser, nil
}

// Reset closes the current browser, launches a new one and waits for the
// settle interval. Teardown errors are logged; launch errors are returned.
func (bm *BrowserManager) Reset(ctx context.Context) error {
	if bm.closed.Load() {
		return guidecrawl.Errorf(guidecrawl.ESESSION, "browser manager closed")
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if err := bm.closeBrowser(); err != nil {
		bm.logger.Warn("closing browser", "err", err)
	}
	if err := bm.launchBrowser(); err != nil {
		return guidecrawl.Errorf(guidecrawl.ESESSION, "relaunching browser: %v", err)
	}
	n := bm.resets.Add(1)
	bm.logger.Info("browser reset", "resets", n)

	if bm.settle <= 0 {
		return nil
	}
	timer := time.NewTimer(bm.settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Resets returns how many times the browser was reset.
func (bm *BrowserManager) Resets() int {
	return int(bm.resets.Load())
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// launchBrowser starts a new browser instance.
// Must be called with mu held.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("window-size", "1920,1080").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		NoSandbox(true).
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}
