package crawl

import (
	"context"

	"github.com/fwojciec/parity"
)

// ContentDiffers compares content extracted from an HTTP-fetched document vs
// a browser-rendered one. Returns true if the rendered content is
// significantly longer (>50%), suggesting JavaScript rendering adds
// meaningful content. Also returns true on extraction errors (assumes JS needed).
func ContentDiffers(httpDoc, rodDoc *parity.RenderedDocument, extractor parity.Extractor) bool {
	httpResult, err := extractor.Extract(httpDoc)
	if err != nil {
		return true
	}

	rodResult, err := extractor.Extract(rodDoc)
	if err != nil {
		return true
	}

	httpLen := len(httpResult.MainContentText)
	rodLen := len(rodResult.MainContentText)

	if httpLen == 0 && rodLen > 0 {
		return true
	}

	threshold := float64(httpLen) * 1.5
	return float64(rodLen) > threshold
}

// ProbeFetcher picks the fetcher to crawl a site with. It fetches the site
// root with both fetchers and keeps the plain HTTP fetcher unless the
// rendered page carries substantially more content.
//
// Always returns a valid fetcher; never fails.
func ProbeFetcher(
	ctx context.Context,
	rootURL string,
	httpFetcher parity.Fetcher,
	rodFetcher parity.Fetcher,
	extractor parity.Extractor,
) parity.Fetcher {
	httpDoc, err := httpFetcher.Fetch(ctx, rootURL)
	if err != nil {
		return rodFetcher
	}

	rodDoc, err := rodFetcher.Fetch(ctx, rootURL)
	if err != nil {
		return httpFetcher
	}

	if ContentDiffers(httpDoc, rodDoc, extractor) {
		return rodFetcher
	}
	return httpFetcher
}
