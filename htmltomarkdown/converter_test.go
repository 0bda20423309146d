package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements parity.Converter at compile time.
var _ parity.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Our Services</h1><h2>Consulting</h2><p>We help teams <strong>ship</strong>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Our Services")
		assert.Contains(t, md, "## Consulting")
		assert.Contains(t, md, "We help teams **ship**.")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		html := `<p>Visit <a href="https://example.com">Example</a> for more info.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>First</li><li>Second</li></ul><ol><li>One</li><li>Two</li></ol>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "1. One")
		assert.Contains(t, md, "2. Two")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Plan</th><th>Price</th></tr></thead>
<tbody><tr><td>Basic</td><td>10</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Plan")
		assert.Contains(t, md, "Basic")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("resolves relative links against domain", func(t *testing.T) {
		t.Parallel()

		html := `<p>Read <a href="/about">about us</a>.</p>`

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://new.example.com/"))
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "(https://new.example.com/about)")
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n<p>Hello</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Hello", md)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		assert.Equal(t, parity.EINVALID, parity.ErrorCode(err))
	})
}
