package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/parity"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of pages a browser serves before it is
// replaced. Chrome's memory baseline creeps up under sustained crawling even
// when every tab is closed.
const DefaultRecycleAfter = 75

// browserInstance is one launched Chrome process.
type browserInstance struct {
	browser *rod.Browser
	pid     int
	close   func() error

	served  int
	active  int
	retired bool
	closed  bool
}

func (b *browserInstance) shutdown() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.close()
}

type launchFunc func() (*browserInstance, error)

// BrowserManager hands out leases on a headless browser and replaces the
// browser after it has served a number of pages. A replaced browser stays
// open until its last lease is released, so concurrent fetches never lose
// their tab mid-navigation.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu           sync.Mutex
	current      *browserInstance
	retired      map[*browserInstance]struct{}
	recycleAfter int
	launch       launchFunc
	closed       bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages a browser serves before it is
// replaced. Non-positive values disable recycling.
func WithRecycleAfter(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// NewBrowserManager launches a headless browser. Close must be called when
// the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		retired:      make(map[*browserInstance]struct{}),
		recycleAfter: DefaultRecycleAfter,
		launch:       launchChrome,
	}
	for _, opt := range opts {
		opt(bm)
	}

	inst, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	return bm, nil
}

// Lease returns the browser to open the next page in and a release function
// that must be called once the page is closed. When the current browser has
// served its quota a fresh one is launched first; if that launch fails the
// old browser keeps serving.
func (bm *BrowserManager) Lease() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, parity.Errorf(parity.EINVALID, "browser is closed")
	}
	if bm.recycleAfter > 0 && bm.current.served >= bm.recycleAfter {
		bm.recycle()
	}

	inst := bm.current
	inst.served++
	inst.active++

	var once sync.Once
	release := func() {
		once.Do(func() { bm.release(inst) })
	}
	return inst.browser, release, nil
}

func (bm *BrowserManager) release(inst *browserInstance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.active--
	if inst.retired && inst.active == 0 {
		delete(bm.retired, inst)
		_ = inst.shutdown()
	}
}

// recycle swaps in a fresh browser. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := bm.launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next
	if old.active == 0 {
		_ = old.shutdown()
		return
	}
	old.retired = true
	bm.retired[old] = struct{}{}
}

// Close shuts down every browser, including retired ones with open leases.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	err := bm.current.shutdown()
	for inst := range bm.retired {
		_ = inst.shutdown()
		delete(bm.retired, inst)
	}
	return err
}

// LauncherPID returns the process ID of the current browser.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.current.pid
}

// launchChrome starts headless Chrome with flags that keep background tabs
// from being throttled.
func launchChrome() (*browserInstance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &browserInstance{
		browser: browser,
		pid:     l.PID(),
		close: func() error {
			err := browser.Close()
			l.Kill()
			return err
		},
	}, nil
}
