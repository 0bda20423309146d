package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/parity"
)

// maxSitemaps bounds how many sitemap documents one discovery reads, which
// keeps a large or self-referencing index from stalling a crawl.
const maxSitemaps = 50

// Ensure SitemapService implements parity.SitemapService.
var _ parity.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
	Logger *slog.Logger
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, Logger: slog.New(slog.DiscardHandler)}
}

// Sitemap is a parsed sitemap document.
type Sitemap struct {
	// Index is true for a <sitemapindex>, whose Locs are child sitemaps.
	Index bool

	// Locs holds the <loc> values in document order.
	Locs []string
}

// ParseSitemap parses a <urlset> or <sitemapindex> document.
func ParseSitemap(r io.Reader) (*Sitemap, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	sm := &Sitemap{}
	entry := "url"
	switch root.Tag {
	case "sitemapindex":
		sm.Index = true
		entry = "sitemap"
	case "urlset":
	default:
		return nil, fmt.Errorf("unexpected sitemap root element <%s>", root.Tag)
	}

	for _, el := range root.SelectElements(entry) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			sm.Locs = append(sm.Locs, u)
		}
	}
	return sm, nil
}

// DiscoverURLs finds the page URLs listed in a site's sitemaps.
// Sitemaps are located through robots.txt, falling back to /sitemap.xml.
// Returns an empty slice (not nil) if no sitemaps are found.
//
// Only URLs on the same host as baseURL are returned. Child sitemaps that
// fail to load are skipped.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *parity.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, parity.Errorf(parity.EINVALID, "invalid base URL %q", baseURL)
	}

	// Sitemaps live at the root of the host.
	sitemapBase := *base
	sitemapBase.Path = ""
	sitemapBase.RawQuery = ""
	sitemapBase.Fragment = ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &sitemapBase)
	if err != nil {
		return nil, err
	}

	allURLs := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)

	queue := sitemapURLs
	for len(queue) > 0 && len(seenSitemaps) < maxSitemaps {
		sitemapURL := queue[0]
		queue = queue[1:]
		if seenSitemaps[sitemapURL] {
			continue
		}
		seenSitemaps[sitemapURL] = true

		sm, err := s.fetchSitemap(ctx, sitemapURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.Logger.Warn("skipping sitemap", "url", sitemapURL, "error", err)
			continue
		}
		if sm.Index {
			queue = append(queue, sm.Locs...)
			continue
		}
		for _, u := range sm.Locs {
			if seenURLs[u] || !sameHost(u, base) || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			allURLs = append(allURLs, u)
		}
	}

	return allURLs, nil
}

// sameHost reports whether rawURL is on base's host, ignoring "www.".
func sameHost(rawURL string, base *url.URL) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return hostKey(u.Hostname()) == hostKey(base.Hostname())
}

func hostKey(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	return []string{sitemapURL.String()}, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// fetchSitemap fetches and parses one sitemap document.
func (s *SitemapService) fetchSitemap(ctx context.Context, sitemapURL string) (*Sitemap, error) {
	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return ParseSitemap(io.LimitReader(body, maxBodySize))
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
