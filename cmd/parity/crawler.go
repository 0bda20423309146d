package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/crawl"
	"github.com/fwojciec/parity/pipeline"
)

// Fetcher modes.
const (
	FetcherAuto = "auto"
	FetcherHTTP = "http"
	FetcherRod  = "rod"
)

// Ensure SiteCrawler implements pipeline.SiteCrawler at compile time.
var _ pipeline.SiteCrawler = (*SiteCrawler)(nil)

// SiteCrawler picks a fetcher for each site before crawling it. In auto
// mode the site root is fetched with both fetchers and the browser is used
// only when rendering reveals substantially more content.
type SiteCrawler struct {
	Mode string
	HTTP parity.Fetcher

	// Rod may be nil, in which case every site is crawled over plain HTTP.
	Rod parity.Fetcher

	Extractor parity.Extractor
	Sitemaps  parity.SitemapService
	Logger    *slog.Logger
	Progress  crawl.ProgressFunc
}

// Crawl crawls the site at root with the selected fetcher.
func (c *SiteCrawler) Crawl(ctx context.Context, root string, opts parity.CrawlOptions) (*parity.Inventory, *crawl.Stats, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("site", root)

	fetcher, name := c.fetcherFor(ctx, root)
	logger.Info("crawling", "fetcher", name)

	crawler := &crawl.Crawler{
		Fetcher:   fetcher,
		Extractor: c.Extractor,
		Sitemaps:  c.Sitemaps,
		Logger:    logger,
		Progress:  c.Progress,
	}
	inv, stats, err := crawler.Crawl(ctx, root, opts)
	logger.Debug("crawl stats", "summary", crawl.FormatStats(stats))
	return inv, stats, err
}

func (c *SiteCrawler) fetcherFor(ctx context.Context, root string) (parity.Fetcher, string) {
	if c.Rod == nil {
		return c.HTTP, FetcherHTTP
	}
	switch c.Mode {
	case FetcherHTTP:
		return c.HTTP, FetcherHTTP
	case FetcherRod:
		return c.Rod, FetcherRod
	}
	if crawl.ProbeFetcher(ctx, root, c.HTTP, c.Rod, c.Extractor) == c.Rod {
		return c.Rod, FetcherRod
	}
	return c.HTTP, FetcherHTTP
}

// progressPrinter prints one line per failed page and a summary per site.
// The source and target crawls report concurrently.
func progressPrinter(w io.Writer) crawl.ProgressFunc {
	var mu sync.Mutex
	return func(e crawl.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch e.Type {
		case crawl.ProgressFailed:
			fmt.Fprintf(w, "  failed %s: %v\n", crawl.TruncateURL(e.URL, 80), e.Error)
		case crawl.ProgressFinished:
			fmt.Fprintf(w, "%s: %d pages crawled\n", e.Site, e.Completed)
		}
	}
}
