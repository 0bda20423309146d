// Package crawl builds a page inventory of a site by breadth-first link
// following from its root, seeded by the site's sitemap.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/parity"
)

// Crawler crawls one site at a time into a parity.Inventory.
type Crawler struct {
	Fetcher   parity.Fetcher
	Extractor parity.Extractor

	// Sitemaps, if set, seeds the frontier with sitemap URLs.
	Sitemaps parity.SitemapService

	// Limiter overrides the per-site politeness gate. When nil, each crawl
	// creates a DomainLimiter from CrawlOptions.PerSiteDelay.
	Limiter parity.DomainLimiter

	Logger   *slog.Logger
	Progress ProgressFunc
}

// Stats summarizes a crawl.
type Stats struct {
	Fetched    int
	Failed     int
	NotFound   int
	Excluded   int
	Duplicates int
	Duration   time.Duration
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Site      string
	Completed int
	Queued    int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It is called from the crawl's coordinator goroutine; the source and target
// crawls of a run call it concurrently.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single item.
type pageResult struct {
	item      Item
	doc       *parity.RenderedDocument
	extracted *parity.ExtractResult
	fetchedAt time.Time
	err       error
}

// Crawl fetches pages of the site at root, following same-site links
// breadth-first up to opts.MaxDepth and at most opts.MaxPages pages.
//
// Every dispatched URL ends up in the inventory, failed fetches included.
// If ctx is canceled the inventory gathered so far is returned together
// with the context error.
func (c *Crawler) Crawl(ctx context.Context, root string, opts parity.CrawlOptions) (*parity.Inventory, *Stats, error) {
	start := time.Now()

	rootURL, err := url.Parse(root)
	if err != nil || rootURL.Host == "" || (rootURL.Scheme != "http" && rootURL.Scheme != "https") {
		return nil, nil, parity.Errorf(parity.EINVALID, "invalid site root %q", root)
	}
	opts = withDefaults(opts)

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("site", rootURL.Host)

	limiter := c.Limiter
	if limiter == nil {
		limiter = NewDomainLimiter(opts.PerSiteDelay)
	}

	site := siteHost(rootURL.Hostname())
	inv := parity.NewInventory(root)
	stats := &Stats{}
	scope := NewScope(rootURL, opts.Exclude)
	frontier := NewFrontier()

	rootURL.Fragment = ""
	frontier.Push(Item{URL: rootURL.String(), Route: parity.NormalizeRoute(rootURL.Path), Depth: 0})
	if opts.MaxDepth >= 1 {
		c.seedSitemap(ctx, logger, root, scope, frontier, stats)
	}

	c.progress(ProgressEvent{Type: ProgressStarted, Site: root, Queued: frontier.Len()})

	process := func(ctx context.Context, item Item) pageResult {
		return c.processItem(ctx, logger, limiter, site, item, opts)
	}

	completed := 0
	handle := func(res *pageResult) {
		if res.err != nil && ctx.Err() != nil {
			return
		}
		completed++

		if res.err != nil {
			page := failedPage(res)
			inv.Put(page)
			if page.Status == parity.StatusNotFound {
				stats.NotFound++
			} else {
				stats.Failed++
			}
			logger.Warn("fetch failed", "url", res.item.URL, "status", page.Status, "reason", page.StatusReason)
			c.progress(ProgressEvent{Type: ProgressFailed, Site: root, Completed: completed, Queued: frontier.Len(), URL: res.item.URL, Error: res.err})
			return
		}

		page := c.okPage(res, scope, frontier, stats)
		if res.extracted.HasWarning(parity.WarnNoMainContent) {
			logger.Warn("no main content found", "url", page.URL)
		}
		if inv.Get(page.Route) != nil {
			stats.Duplicates++
		}
		inv.Put(page)
		stats.Fetched++

		if res.item.Depth < opts.MaxDepth {
			for _, link := range res.extracted.Links {
				abs, route, ok := scope.Allow(link)
				if !ok {
					stats.Excluded++
					continue
				}
				if !frontier.Push(Item{URL: abs, Route: route, Depth: res.item.Depth + 1}) {
					stats.Duplicates++
				}
			}
		}
		c.progress(ProgressEvent{Type: ProgressCompleted, Site: root, Completed: completed, Queued: frontier.Len(), URL: page.URL})
	}

	err = walkFrontier(ctx, frontier, opts.Concurrency, opts.MaxPages, process, handle)

	stats.Duration = time.Since(start)
	c.progress(ProgressEvent{Type: ProgressFinished, Site: root, Completed: completed})
	logger.Info("crawl finished",
		"pages", inv.Len(),
		"fetched", stats.Fetched,
		"failed", stats.Failed,
		"notFound", stats.NotFound,
		"duration", stats.Duration)

	return inv, stats, err
}

// seedSitemap queues the site's sitemap URLs at depth 1. Sitemap failures
// are logged and otherwise ignored.
func (c *Crawler) seedSitemap(ctx context.Context, logger *slog.Logger, root string, scope *Scope, frontier *Frontier, stats *Stats) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, root, nil)
	if err != nil {
		logger.Warn("sitemap discovery failed", "error", err)
		return
	}
	for _, u := range urls {
		abs, route, ok := scope.Allow(u)
		if !ok {
			stats.Excluded++
			continue
		}
		if !frontier.Push(Item{URL: abs, Route: route, Depth: 1}) {
			stats.Duplicates++
		}
	}
}

// processItem fetches and extracts a single item. It runs on a worker.
// Every request, retries included, passes the site's rate gate.
func (c *Crawler) processItem(ctx context.Context, logger *slog.Logger, limiter parity.DomainLimiter, site string, item Item, opts parity.CrawlOptions) pageResult {
	result := pageResult{item: item}

	wait := func(ctx context.Context) error {
		return limiter.Wait(ctx, site)
	}

	delays := opts.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	retryLog := func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}
	doc, err := FetchWithRetryDelays(ctx, item.URL, c.Fetcher.Fetch, wait, retryLog, delays, opts.FetchTimeout)
	result.fetchedAt = time.Now()
	if err != nil {
		result.err = err
		return result
	}
	result.doc = doc

	extracted, err := c.Extractor.Extract(doc)
	if err != nil {
		result.err = err
		return result
	}
	result.extracted = extracted
	return result
}

// okPage builds the inventory page of a successful fetch. A same-site
// redirect files the page under its final route, which is marked seen so
// it is not fetched again.
func (c *Crawler) okPage(res *pageResult, scope *Scope, frontier *Frontier, stats *Stats) *parity.Page {
	route := res.item.Route
	pageURL := res.item.URL
	if final := res.doc.FinalURL; final != "" && final != res.item.URL {
		pageURL = final
		if u, err := url.Parse(final); err == nil && scope.SameSite(u) {
			route = parity.NormalizeRoute(u.Path)
			frontier.MarkSeen(route)
		}
	}

	ex := res.extracted
	text := ex.MainContentText
	return &parity.Page{
		URL:             pageURL,
		Route:           route,
		Title:           ex.Title,
		MetaDescription: ex.MetaDescription,
		CanonicalURL:    ex.CanonicalURL,
		H1:              ex.H1,
		H2:              ex.H2,
		MainContentHTML: ex.MainContentHTML,
		MainContentText: text,
		ContentHash:     parity.ContentHash(text),
		OutboundLinks:   outboundRoutes(ex.Links, scope),
		Depth:           res.item.Depth,
		Status:          parity.StatusOK,
		FetchedAt:       res.fetchedAt,
	}
}

// failedPage records a failed fetch or extraction.
func failedPage(res *pageResult) *parity.Page {
	page := &parity.Page{
		URL:          res.item.URL,
		Route:        res.item.Route,
		Depth:        res.item.Depth,
		Status:       parity.StatusError,
		StatusReason: res.err.Error(),
		FetchedAt:    res.fetchedAt,
	}
	var fe *parity.FetchError
	if errors.As(res.err, &fe) {
		page.StatusReason = string(fe.Kind)
		if fe.StatusCode != 0 {
			page.StatusReason = fe.Error()
		}
		if fe.IsNotFound() {
			page.Status = parity.StatusNotFound
		}
	}
	return page
}

// outboundRoutes returns the distinct in-scope routes among links.
func outboundRoutes(links []string, scope *Scope) []string {
	seen := make(map[string]struct{}, len(links))
	var routes []string
	for _, link := range links {
		_, route, ok := scope.Allow(link)
		if !ok {
			continue
		}
		if _, dup := seen[route]; dup {
			continue
		}
		seen[route] = struct{}{}
		routes = append(routes, route)
	}
	return routes
}

func (c *Crawler) progress(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

func withDefaults(opts parity.CrawlOptions) parity.CrawlOptions {
	if opts.MaxPages <= 0 {
		opts.MaxPages = parity.DefaultMaxPages
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = parity.DefaultConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = parity.DefaultFetchTimeout
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	return opts
}
