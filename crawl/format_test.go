package crawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/parity/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com/very/long/path/to/documentation"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, ".../to/documentation", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns URL unchanged when exactly max length", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com"
		assert.Equal(t, url, crawl.TruncateURL(url, len(url)))
	})

	t.Run("returns empty string when maxLen is zero", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", 0))
	})

	t.Run("returns empty string when maxLen is negative", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", -1))
	})

	t.Run("returns prefix of URL when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		// When maxLen < 4, we can't fit "..." prefix, so return URL prefix
		assert.Equal(t, "htt", crawl.TruncateURL("https://example.com", 3))
		assert.Equal(t, "ht", crawl.TruncateURL("https://example.com", 2))
		assert.Equal(t, "h", crawl.TruncateURL("https://example.com", 1))
	})

	t.Run("handles short URL with small maxLen", func(t *testing.T) {
		t.Parallel()
		// URL shorter than maxLen should return unchanged
		assert.Equal(t, "ab", crawl.TruncateURL("ab", 3))
		assert.Equal(t, "a", crawl.TruncateURL("a", 2))
	})
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "250ms", crawl.FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", crawl.FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "1m30s", crawl.FormatDuration(90*time.Second+200*time.Millisecond))
}

func TestFormatStats(t *testing.T) {
	t.Parallel()

	t.Run("summarizes counts", func(t *testing.T) {
		t.Parallel()

		s := &crawl.Stats{Fetched: 3, NotFound: 1, Duration: 2 * time.Second}
		assert.Equal(t, "3 fetched, 1 not found, 0 failed in 2.0s", crawl.FormatStats(s))
	})

	t.Run("handles nil stats", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "no pages crawled", crawl.FormatStats(nil))
	})
}
