package rod

import (
	"errors"

	"github.com/go-rod/rod"
)

// FollowRedirects feeds the hops of a navigation from start through a
// redirect chain and returns the first error.
func FollowRedirects(start string, hops ...string) error {
	c := newRedirectChain(start)
	for _, next := range hops {
		if err := c.hop(next); err != nil {
			return err
		}
	}
	return c.failure()
}

// FakeBrowser records the lifecycle of a browser launched by a
// BrowserManager under test.
type FakeBrowser struct {
	Browser *rod.Browser
	Closed  bool
}

// FakeLauncher stands in for Chrome. Set Fail to make subsequent launches
// return an error.
type FakeLauncher struct {
	Launched []*FakeBrowser
	Fail     bool
}

// WithFakeLauncher makes the manager launch fake browsers from l.
func WithFakeLauncher(l *FakeLauncher) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launch = func() (*browserInstance, error) {
			if l.Fail {
				return nil, errors.New("launch failed")
			}
			fb := &FakeBrowser{Browser: &rod.Browser{}}
			l.Launched = append(l.Launched, fb)
			return &browserInstance{
				browser: fb.Browser,
				pid:     len(l.Launched),
				close: func() error {
					fb.Closed = true
					return nil
				},
			}, nil
		}
	}
}
