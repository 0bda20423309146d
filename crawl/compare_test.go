package crawl_test

import (
	"context"
	"testing"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/crawl"
	"github.com/fwojciec/parity/mock"
	"github.com/stretchr/testify/assert"
)

var (
	httpDoc = &parity.RenderedDocument{URL: "https://example.com", HTML: "http-html"}
	rodDoc  = &parity.RenderedDocument{URL: "https://example.com", HTML: "rod-html"}
)

func TestContentDiffers(t *testing.T) {
	t.Parallel()

	t.Run("returns true when rendered content is more than 50% longer", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
				// Return different lengths based on input
				if doc == httpDoc {
					return &parity.ExtractResult{
						MainContentText: "short content", // 13 chars
					}, nil
				}
				return &parity.ExtractResult{
					MainContentText: "much longer content from rod which is significantly bigger", // 58 chars, >50% longer
				}, nil
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.True(t, result, "should return true when rendered content is >50% longer")
	})

	t.Run("returns false when content lengths are similar", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
				if doc == httpDoc {
					return &parity.ExtractResult{
						MainContentText: "some content here", // 17 chars
					}, nil
				}
				return &parity.ExtractResult{
					MainContentText: "similar size text", // 17 chars (equal)
				}, nil
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.False(t, result, "should return false when content is similar length")
	})

	t.Run("returns false when rendered content is only 50% longer", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
				if doc == httpDoc {
					return &parity.ExtractResult{
						MainContentText: "0123456789", // 10 chars
					}, nil
				}
				return &parity.ExtractResult{
					MainContentText: "012345678901234", // 15 chars (exactly 50% longer)
				}, nil
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.False(t, result, "should return false when rendered content is exactly 50% longer (boundary)")
	})

	t.Run("returns true when HTTP extraction fails", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
				if doc == httpDoc {
					return nil, parity.Errorf(parity.EINTERNAL, "extraction failed")
				}
				return &parity.ExtractResult{
					MainContentText: "rod content",
				}, nil
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.True(t, result, "should return true when HTTP extraction fails (assume JS needed)")
	})

	t.Run("returns true when rendered extraction fails", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
				if doc == httpDoc {
					return &parity.ExtractResult{
						MainContentText: "http content",
					}, nil
				}
				return nil, parity.Errorf(parity.EINTERNAL, "extraction failed")
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.True(t, result, "should return true when rendered extraction fails (assume JS needed)")
	})

	t.Run("returns true when HTTP content is empty", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
				if doc == httpDoc {
					return &parity.ExtractResult{
						MainContentText: "", // Empty
					}, nil
				}
				return &parity.ExtractResult{
					MainContentText: "rod has content",
				}, nil
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.True(t, result, "should return true when HTTP content is empty but the rendered page has content")
	})

	t.Run("returns true when both extractions fail", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{
			ExtractFn: func(_ *parity.RenderedDocument) (*parity.ExtractResult, error) {
				return nil, parity.Errorf(parity.EINTERNAL, "extraction failed")
			},
		}

		result := crawl.ContentDiffers(httpDoc, rodDoc, extractor)

		assert.True(t, result, "should return true when both extractions fail (assume JS needed)")
	})
}

func TestProbeFetcher(t *testing.T) {
	t.Parallel()

	extractor := &mock.Extractor{
		ExtractFn: func(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
			return &parity.ExtractResult{MainContentText: doc.HTML}, nil
		},
	}
	fetcherReturning := func(html string, err error) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*parity.RenderedDocument, error) {
				if err != nil {
					return nil, err
				}
				return &parity.RenderedDocument{URL: url, StatusCode: 200, HTML: html}, nil
			},
		}
	}
	fetchErr := &parity.FetchError{Kind: parity.FetchNetwork, URL: "https://example.com"}

	t.Run("keeps HTTP when content is similar", func(t *testing.T) {
		t.Parallel()

		httpF := fetcherReturning("server rendered content", nil)
		rodF := fetcherReturning("server rendered content!", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://example.com", httpF, rodF, extractor)

		assert.Same(t, httpF, got)
	})

	t.Run("uses browser when rendering adds content", func(t *testing.T) {
		t.Parallel()

		httpF := fetcherReturning("loading", nil)
		rodF := fetcherReturning("the full client rendered article text", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://example.com", httpF, rodF, extractor)

		assert.Same(t, rodF, got)
	})

	t.Run("falls back to browser when HTTP fails", func(t *testing.T) {
		t.Parallel()

		httpF := fetcherReturning("", fetchErr)
		rodF := fetcherReturning("content", nil)

		got := crawl.ProbeFetcher(context.Background(), "https://example.com", httpF, rodF, extractor)

		assert.Same(t, rodF, got)
	})

	t.Run("keeps HTTP when browser fails", func(t *testing.T) {
		t.Parallel()

		httpF := fetcherReturning("content", nil)
		rodF := fetcherReturning("", fetchErr)

		got := crawl.ProbeFetcher(context.Background(), "https://example.com", httpF, rodF, extractor)

		assert.Same(t, httpF, got)
	})
}
