package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/parity"
)

// Ensure Fetcher implements parity.Fetcher at compile time.
var _ parity.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a parity.Fetcher and records a counter and a latency
// histogram for every fetch.
type Fetcher struct {
	next    parity.Fetcher
	metrics *Metrics
}

// NewFetcher returns a Fetcher recording into m.
func NewFetcher(next parity.Fetcher, m *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: m}
}

// Fetch delegates to the wrapped fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*parity.RenderedDocument, error) {
	start := time.Now()
	doc, err := f.next.Fetch(ctx, url)

	host := hostLabel(url)
	f.metrics.FetchDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
	f.metrics.FetchesTotal.WithLabelValues(host, fetchOutcome(doc, err)).Inc()
	return doc, err
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
