package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/parity"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*parity.RenderedDocument, error)

// WaitFunc blocks until the next request may be sent.
type WaitFunc func(ctx context.Context) error

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// FetchWithRetryDelays fetches a URL, retrying transient failures once per
// entry in delays and sleeping that long before each retry. The wait
// function, if provided, gates every attempt, retries included; its time
// does not count against the attempt's timeout. The logger function, if
// provided, is called for each retry attempt.
//
// Failures are returned as *parity.FetchError. Only temporary failures
// (timeouts, 5xx responses, network errors) are retried. If ctx is canceled
// the context error is returned instead.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, wait WaitFunc, logger LogFunc, delays []time.Duration, timeout time.Duration) (*parity.RenderedDocument, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr *parity.FetchError
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if wait != nil {
			if err := wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return nil, err
			}
		}
		doc, err := fetchAttempt(ctx, url, fetch, timeout)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = asFetchError(url, err)

		if !lastErr.Temporary() || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, lastErr)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// fetchAttempt runs a single fetch under its own deadline.
func fetchAttempt(ctx context.Context, url string, fetch FetchFunc, timeout time.Duration) (*parity.RenderedDocument, error) {
	if timeout <= 0 {
		timeout = parity.DefaultFetchTimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc, err := fetch(actx, url)
	if err != nil {
		if ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
			var fe *parity.FetchError
			if !errors.As(err, &fe) {
				return nil, &parity.FetchError{Kind: parity.FetchTimeout, URL: url, Err: err}
			}
		}
		return nil, err
	}
	if fe := parity.NewStatusError(url, doc.StatusCode); fe != nil {
		return nil, fe
	}
	return doc, nil
}

// asFetchError classifies err. Errors that carry no classification are
// treated as network failures.
func asFetchError(url string, err error) *parity.FetchError {
	var fe *parity.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &parity.FetchError{Kind: parity.FetchTimeout, URL: url, Err: err}
	}
	return &parity.FetchError{Kind: parity.FetchNetwork, URL: url, Err: err}
}
