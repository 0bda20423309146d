package mock

import (
	"context"

	"github.com/fwojciec/parity"
)

var _ parity.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of parity.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*parity.RenderedDocument, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*parity.RenderedDocument, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ parity.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of parity.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
