// Package http provides HTTP-based implementations of parity.Fetcher and
// parity.SitemapService. The fetcher does not execute JavaScript and suits
// server-rendered sites.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/parity"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = parity.DefaultFetchTimeout

// MaxRedirects is the number of redirect hops followed before a fetch is
// reported as a redirect loop.
const MaxRedirects = 5

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// DefaultUserAgent identifies the checker to the sites it crawls.
const DefaultUserAgent = "parity/1.0 (+content parity checker)"

var errRedirectLoop = errors.New("redirect loop")

// Ensure Fetcher implements parity.Fetcher at compile time.
var _ parity.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML documents using plain HTTP requests.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient sets the underlying HTTP client. Its CheckRedirect is replaced
// so the redirect cap always applies.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		clone := *c
		f.client = &clone
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{}
	}
	f.client.Timeout = f.timeout
	f.client.CheckRedirect = checkRedirect

	return f
}

// checkRedirect follows at most MaxRedirects hops and rejects cycles.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > MaxRedirects {
		return errRedirectLoop
	}
	next := req.URL.String()
	for _, prev := range via {
		if prev.URL.String() == next {
			return errRedirectLoop
		}
	}
	return nil
}

// Fetch retrieves the document at url. Non-2xx responses and transport
// failures are returned as *parity.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*parity.RenderedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &parity.FetchError{Kind: parity.FetchNetwork, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyError(ctx, url, err)
	}
	defer resp.Body.Close()

	if fe := parity.NewStatusError(url, resp.StatusCode); fe != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyError(ctx, url, err)
	}

	return &parity.RenderedDocument{
		URL:        url,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}

// classifyError maps a transport error to a FetchError. Cancellation of
// ctx is returned unchanged.
func classifyError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, errRedirectLoop) {
		return &parity.FetchError{Kind: parity.FetchRedirectLoop, URL: url, Err: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &parity.FetchError{Kind: parity.FetchTimeout, URL: url, Err: err}
	}
	return &parity.FetchError{Kind: parity.FetchNetwork, URL: url, Err: err}
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
