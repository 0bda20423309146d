// Package rod fetches JavaScript-rendered pages with headless Chrome.
package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/parity"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Ensure Fetcher implements parity.Fetcher at compile time.
var _ parity.Fetcher = (*Fetcher)(nil)

// DefaultSettleDelay is how long a page must stay quiet on the network
// before its DOM is captured.
const DefaultSettleDelay = parity.DefaultSettleDelay

// blockedResourceTypes are never downloaded; they do not affect the DOM.
var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeMedia,
}

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	settleDelay  time.Duration
	timeout      time.Duration
	recycleAfter int
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithSettleDelay sets the quiet period required after load.
func WithSettleDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithFetchTimeout bounds a single Fetch call.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBrowserRecycling sets how many pages a browser serves before it is
// replaced.
func WithBrowserRecycling(pages int) FetcherOption {
	return func(f *Fetcher) {
		f.recycleAfter = pages
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		settleDelay:  DefaultSettleDelay,
		timeout:      parity.DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithRecycleAfter(f.recycleAfter))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL in a stealth tab, waits for network activity to
// settle and returns the rendered document with the main response status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*parity.RenderedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, release, err := f.manager.Lease()
	if err != nil {
		return nil, err
	}
	defer release()

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, &parity.FetchError{Kind: parity.FetchNetwork, URL: url, Err: fmt.Errorf("create tab: %w", err)}
	}
	defer page.Close()

	page = page.Context(fetchCtx)

	router := page.HijackRequests()
	for _, rt := range blockedResourceTypes {
		_ = router.Add("*", rt, func(h *rod.Hijack) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go router.Run()
	defer func() { _ = router.Stop() }()

	resp := &documentResponse{}
	_ = proto.NetworkEnable{}.Call(page)
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		resp.set(e.Response.Status, e.Response.URL)
		return true
	})
	go waitResponse()

	// Chrome follows about 20 redirects on its own; stop the navigation
	// once the main document exceeds MaxRedirects hops.
	chain := newRedirectChain(url)
	waitRedirects := page.EachEvent(func(e *proto.NetworkRequestWillBeSent) bool {
		if e.RedirectResponse == nil || e.Type != proto.NetworkResourceTypeDocument || e.FrameID != page.FrameID {
			return false
		}
		if chain.hop(e.Request.URL) != nil {
			cancel()
			return true
		}
		return false
	})
	go waitRedirects()

	fail := func(err error) error {
		if ferr := chain.failure(); ferr != nil {
			return ferr
		}
		return ClassifyError(ctx, url, err)
	}

	waitIdle := page.WaitRequestIdle(f.settleDelay, nil, nil, nil)

	if err := page.Navigate(url); err != nil {
		return nil, fail(err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fail(err)
	}
	waitIdle()

	html, err := page.HTML()
	if err != nil {
		return nil, fail(err)
	}
	if err := chain.failure(); err != nil {
		return nil, err
	}

	status, finalURL := resp.get()
	if finalURL == "" {
		if info, err := page.Info(); err == nil {
			finalURL = info.URL
		}
	}
	if status == 0 {
		status = 200
	}

	return &parity.RenderedDocument{
		URL:        url,
		FinalURL:   finalURL,
		StatusCode: status,
		HTML:       html,
	}, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// documentResponse records the main document response, which arrives on the
// event goroutine.
type documentResponse struct {
	mu       sync.Mutex
	status   int
	finalURL string
}

func (r *documentResponse) set(status int, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.finalURL = url
}

func (r *documentResponse) get() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.finalURL
}

// ClassifyError maps a browser error onto a FetchError. Cancellation of the
// caller's context is returned as is.
func ClassifyError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ERR_TOO_MANY_REDIRECTS"):
		return &parity.FetchError{Kind: parity.FetchRedirectLoop, URL: url, Err: err}
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(msg, "ERR_TIMED_OUT"):
		return &parity.FetchError{Kind: parity.FetchTimeout, URL: url, Err: err}
	default:
		return &parity.FetchError{Kind: parity.FetchNetwork, URL: url, Err: err}
	}
}
