package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parity"
)

// Ensure LoggingFetcher implements parity.Fetcher.
var _ parity.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   parity.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next parity.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (doc *parity.RenderedDocument, err error) {
	defer func(begin time.Time) {
		var status, size int
		if doc != nil {
			status, size = doc.StatusCode, len(doc.HTML)
		}
		f.logger.Log(ctx, levelFor(err), "fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
