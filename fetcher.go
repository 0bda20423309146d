package parity

import "context"

// Fetcher retrieves rendered documents from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch navigates to the URL, waits for rendering to settle, and returns
	// the rendered document. Failures are reported as *FetchError unless the
	// context was canceled, in which case the context error is returned.
	Fetch(ctx context.Context, url string) (*RenderedDocument, error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
