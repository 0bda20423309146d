package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/parity"
	parityhttp "github.com/fwojciec/parity/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := parityhttp.NewFetcher()
		defer fetcher.Close()

		doc, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", doc.HTML)
		assert.Equal(t, http.StatusOK, doc.StatusCode)
		assert.Equal(t, server.URL, doc.URL)
	})

	t.Run("records final URL after redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("new page"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		doc, err := parityhttp.NewFetcher().Fetch(context.Background(), server.URL+"/old")

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/old", doc.URL)
		assert.Equal(t, server.URL+"/new", doc.FinalURL)
	})

	t.Run("follows up to five redirects", func(t *testing.T) {
		t.Parallel()

		server := redirectChain(5)
		defer server.Close()

		doc, err := parityhttp.NewFetcher().Fetch(context.Background(), server.URL+"/hop/0")

		require.NoError(t, err)
		assert.Equal(t, "arrived", doc.HTML)
	})

	t.Run("reports a sixth redirect as a loop", func(t *testing.T) {
		t.Parallel()

		server := redirectChain(6)
		defer server.Close()

		_, err := parityhttp.NewFetcher().Fetch(context.Background(), server.URL+"/hop/0")

		var fe *parity.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, parity.FetchRedirectLoop, fe.Kind)
	})

	t.Run("reports redirect cycles as a loop", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/b", http.StatusFound)
		})
		mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/a", http.StatusFound)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, err := parityhttp.NewFetcher().Fetch(context.Background(), server.URL+"/a")

		var fe *parity.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, parity.FetchRedirectLoop, fe.Kind)
		assert.False(t, fe.Temporary())
	})

	t.Run("maps status codes to fetch errors", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status int
			kind   parity.FetchErrorKind
		}{
			{http.StatusNotFound, parity.FetchHTTP4xx},
			{http.StatusForbidden, parity.FetchHTTP4xx},
			{http.StatusInternalServerError, parity.FetchHTTP5xx},
			{http.StatusServiceUnavailable, parity.FetchHTTP5xx},
		}

		for _, tt := range tests {
			t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
				t.Parallel()

				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
				}))
				defer server.Close()

				_, err := parityhttp.NewFetcher().Fetch(context.Background(), server.URL)

				var fe *parity.FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.kind, fe.Kind)
				assert.Equal(t, tt.status, fe.StatusCode)
				assert.Contains(t, err.Error(), strconv.Itoa(tt.status))
			})
		}
	})

	t.Run("reports timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := parityhttp.NewFetcher(parityhttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)

		var fe *parity.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, parity.FetchTimeout, fe.Kind)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := parityhttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reports network error for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := parityhttp.NewFetcher(parityhttp.WithTimeout(2 * time.Second))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")

		var fe *parity.FetchError
		require.ErrorAs(t, err, &fe)
		assert.True(t, fe.Kind == parity.FetchNetwork || fe.Kind == parity.FetchTimeout)
	})

	t.Run("uses custom user agent", func(t *testing.T) {
		t.Parallel()

		var got string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		_, err := parityhttp.NewFetcher(parityhttp.WithUserAgent("test-agent")).Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "test-agent", got)
	})
}

// redirectChain serves /hop/0 → /hop/1 → ... → /hop/n, where /hop/n answers.
func redirectChain(n int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if i >= n {
			_, _ = w.Write([]byte("arrived"))
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", i+1), http.StatusFound)
	}))
}

// Compile-time verification that Fetcher implements parity.Fetcher
var _ parity.Fetcher = (*parityhttp.Fetcher)(nil)
