package rod

import (
	"errors"
	"sync"

	"github.com/fwojciec/parity"
)

// MaxRedirects is the number of redirect hops a navigation may take before
// it fails as a redirect loop.
const MaxRedirects = 5

var errRedirectLoop = errors.New("too many redirects")

// redirectChain follows the main document's redirects during a navigation.
// Hops arrive on the event goroutine.
type redirectChain struct {
	mu      sync.Mutex
	url     string
	visited map[string]struct{}
	hops    int
	err     error
}

func newRedirectChain(url string) *redirectChain {
	return &redirectChain{
		url:     url,
		visited: map[string]struct{}{url: {}},
	}
}

// hop records a redirect to next. It returns a redirect-loop FetchError once
// the chain exceeds MaxRedirects or revisits a URL; the error sticks.
func (c *redirectChain) hop(next string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	c.hops++
	_, repeated := c.visited[next]
	if repeated || c.hops > MaxRedirects {
		c.err = &parity.FetchError{Kind: parity.FetchRedirectLoop, URL: c.url, Err: errRedirectLoop}
		return c.err
	}
	c.visited[next] = struct{}{}
	return nil
}

// failure returns the error recorded by hop, if any.
func (c *redirectChain) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
