package rod_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hops(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/hop/%d", i+1)
	}
	return urls
}

func TestFollowRedirects(t *testing.T) {
	t.Parallel()

	const start = "https://example.com/start"

	t.Run("allows the maximum number of hops", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, rod.FollowRedirects(start, hops(rod.MaxRedirects)...))
	})

	t.Run("fails on one hop too many", func(t *testing.T) {
		t.Parallel()

		err := rod.FollowRedirects(start, hops(rod.MaxRedirects+1)...)

		var fe *parity.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, parity.FetchRedirectLoop, fe.Kind)
		assert.Equal(t, start, fe.URL)
	})

	t.Run("fails when a URL repeats", func(t *testing.T) {
		t.Parallel()

		err := rod.FollowRedirects(start, "https://example.com/a", start)

		var fe *parity.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, parity.FetchRedirectLoop, fe.Kind)
	})
}
