package regen_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/mock"
	"github.com/fwojciec/parity/regen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRegenerator(rules []parity.RewriteRule, conv parity.Converter) *regen.Regenerator {
	r := regen.NewRegenerator("https://old.example.com", "https://new.example.com/", rules, conv)
	r.Now = func() time.Time { return fixedNow }
	return r
}

func sourceInventory() *parity.Inventory {
	src := parity.NewInventory("https://old.example.com")
	src.Put(&parity.Page{
		Route:           "/",
		Title:           "Home",
		MainContentHTML: "<p>Welcome</p>",
		Status:          parity.StatusOK,
	})
	src.Put(&parity.Page{
		Route:           "/about",
		Title:           "About old.example.com",
		MetaDescription: "Read about https://old.example.com",
		CanonicalURL:    "https://old.example.com/about",
		MainContentHTML: `<p onclick="track()">Visit <a href="https://old.example.com/blog/2020/post">our post</a></p><script>evil()</script>`,
		Status:          parity.StatusOK,
	})
	src.Put(&parity.Page{
		Route:           "/old-faq",
		Title:           "FAQ",
		MainContentHTML: "<h2>Questions</h2><!-- draft --><p>Answers</p>",
		Status:          parity.StatusOK,
	})
	return src
}

func TestRegenerator_Regenerate(t *testing.T) {
	t.Parallel()

	verdicts := []parity.Verdict{
		{MatchPair: parity.MatchPair{SourceRoute: "/", TargetRoute: "/", MatchType: parity.MatchExactPath}, Similarity: 1, Classification: parity.Identical},
		{MatchPair: parity.MatchPair{SourceRoute: "/about", TargetRoute: "/about-us", MatchType: parity.MatchSimilarity}, Similarity: 0.5, Classification: parity.Partial},
		{MatchPair: parity.MatchPair{SourceRoute: "/old-faq", MatchType: parity.MatchUnmatched}, Classification: parity.Missing},
	}
	rules := []parity.RewriteRule{
		{From: "/blog/2020", To: "/archive/2020"},
		{From: "/blog", To: "/news"},
		{From: "/old-faq", To: "/faq"},
	}

	artifacts, err := newRegenerator(rules, nil).Regenerate(verdicts, sourceInventory(), parity.NewInventory("https://new.example.com"))

	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	about := artifacts[0]
	assert.NotEmpty(t, about.ID)
	assert.NoError(t, about.Validate())
	assert.Equal(t, "/about-us", about.Route)
	assert.Equal(t, "/about", about.SourceRoute)
	assert.Equal(t, parity.Partial, about.Classification)
	assert.Equal(t, "About new.example.com", about.Title)
	assert.Equal(t, "Read about https://new.example.com", about.Description)
	assert.Equal(t, "https://new.example.com/about-us", about.CanonicalURL)
	assert.Equal(t, `<p>Visit <a href="https://new.example.com/archive/2020/post">our post</a></p>`, about.SanitizedHTML)
	assert.Equal(t, fixedNow, about.GeneratedAt)
	assert.Empty(t, about.Markdown)

	faq := artifacts[1]
	assert.Equal(t, "/faq", faq.Route)
	assert.Equal(t, "/old-faq", faq.SourceRoute)
	assert.Equal(t, parity.Missing, faq.Classification)
	assert.Equal(t, "https://new.example.com/faq", faq.CanonicalURL)
	assert.Equal(t, "<h2>Questions</h2><p>Answers</p>", faq.SanitizedHTML)
}

func TestRegenerator_Regenerate_Canonical(t *testing.T) {
	t.Parallel()

	src := parity.NewInventory("https://old.example.com")
	src.Put(&parity.Page{Route: "/old-faq", CanonicalURL: "https://old.example.com/old-faq/", MainContentHTML: "<p>FAQ</p>", Status: parity.StatusOK})
	src.Put(&parity.Page{Route: "/blog/post", CanonicalURL: "https://old.example.com/blog/post", MainContentHTML: "<p>Post</p>", Status: parity.StatusOK})
	src.Put(&parity.Page{Route: "/blog/post-print", CanonicalURL: "https://old.example.com/blog/post", MainContentHTML: "<p>Post</p>", Status: parity.StatusOK})
	src.Put(&parity.Page{Route: "/plain", MainContentHTML: "<p>Plain</p>", Status: parity.StatusOK})

	verdicts := []parity.Verdict{
		{MatchPair: parity.MatchPair{SourceRoute: "/old-faq", TargetRoute: "/faq", MatchType: parity.MatchSimilarity}, Similarity: 0.4, Classification: parity.Partial},
		{MatchPair: parity.MatchPair{SourceRoute: "/blog/post", MatchType: parity.MatchUnmatched}, Classification: parity.Missing},
		{MatchPair: parity.MatchPair{SourceRoute: "/blog/post-print", MatchType: parity.MatchUnmatched}, Classification: parity.Missing},
		{MatchPair: parity.MatchPair{SourceRoute: "/plain", MatchType: parity.MatchUnmatched}, Classification: parity.Missing},
	}
	rules := []parity.RewriteRule{{From: "/blog/", To: "/news/"}}

	artifacts, err := newRegenerator(rules, nil).Regenerate(verdicts, src, parity.NewInventory("https://new.example.com"))

	require.NoError(t, err)
	require.Len(t, artifacts, 4)

	t.Run("renamed page points at its target route", func(t *testing.T) {
		assert.Equal(t, "/faq", artifacts[0].Route)
		assert.Equal(t, "https://new.example.com/faq", artifacts[0].CanonicalURL)
	})

	t.Run("rewritten missing page points at its new route", func(t *testing.T) {
		assert.Equal(t, "/news/post", artifacts[1].Route)
		assert.Equal(t, "https://new.example.com/news/post", artifacts[1].CanonicalURL)
	})

	t.Run("canonical to another page is rewritten like a link", func(t *testing.T) {
		assert.Equal(t, "/news/post-print", artifacts[2].Route)
		assert.Equal(t, "https://new.example.com/news/post", artifacts[2].CanonicalURL)
	})

	t.Run("page without canonical gets its target URL", func(t *testing.T) {
		assert.Equal(t, "https://new.example.com/plain", artifacts[3].CanonicalURL)
	})
}

func TestRegenerator_Regenerate_OnlyNonIdentical(t *testing.T) {
	t.Parallel()

	var verdicts []parity.Verdict
	for _, route := range []string{"/", "/about", "/old-faq"} {
		verdicts = append(verdicts, parity.Verdict{
			MatchPair:      parity.MatchPair{SourceRoute: route, TargetRoute: route, MatchType: parity.MatchExactPath},
			Similarity:     0.95,
			Classification: parity.Identical,
		})
	}

	artifacts, err := newRegenerator(nil, nil).Regenerate(verdicts, sourceInventory(), parity.NewInventory("x"))

	require.NoError(t, err)
	assert.NotNil(t, artifacts)
	assert.Empty(t, artifacts)
}

func TestRegenerator_Regenerate_Markdown(t *testing.T) {
	t.Parallel()

	verdict := parity.Verdict{
		MatchPair:      parity.MatchPair{SourceRoute: "/old-faq", MatchType: parity.MatchUnmatched},
		Classification: parity.Missing,
	}

	t.Run("converts sanitized HTML", func(t *testing.T) {
		t.Parallel()

		var got string
		conv := &mock.Converter{ConvertFn: func(html string) (string, error) {
			got = html
			return "## Questions\n\nAnswers", nil
		}}

		artifacts, err := newRegenerator(nil, conv).Regenerate([]parity.Verdict{verdict}, sourceInventory(), parity.NewInventory("x"))

		require.NoError(t, err)
		require.Len(t, artifacts, 1)
		assert.Equal(t, "<h2>Questions</h2><p>Answers</p>", got)
		assert.Equal(t, "## Questions\n\nAnswers", artifacts[0].Markdown)
		assert.Equal(t, "/old-faq", artifacts[0].Route)
	})

	t.Run("conversion failure leaves markdown empty", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{ConvertFn: func(string) (string, error) {
			return "", errors.New("boom")
		}}

		artifacts, err := newRegenerator(nil, conv).Regenerate([]parity.Verdict{verdict}, sourceInventory(), parity.NewInventory("x"))

		require.NoError(t, err)
		require.Len(t, artifacts, 1)
		assert.Empty(t, artifacts[0].Markdown)
		assert.NotEmpty(t, artifacts[0].SanitizedHTML)
	})
}

func TestRegenerator_Regenerate_UnknownSource(t *testing.T) {
	t.Parallel()

	verdicts := []parity.Verdict{{
		MatchPair:      parity.MatchPair{SourceRoute: "/nope"},
		Classification: parity.Missing,
	}}

	_, err := newRegenerator(nil, nil).Regenerate(verdicts, sourceInventory(), parity.NewInventory("x"))

	assert.Equal(t, parity.EINVALID, parity.ErrorCode(err))
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	t.Run("removes scripts, styles, comments and event handlers", func(t *testing.T) {
		t.Parallel()

		in := `<div onmouseover="x()" class="box"><style>p{}</style><p>Keep</p><noscript>no</noscript><!-- c --><script>y()</script></div>`

		out, err := regen.Sanitize(in, nil)

		require.NoError(t, err)
		assert.Equal(t, `<div class="box"><p>Keep</p></div>`, out)
	})

	t.Run("rewrites href and src", func(t *testing.T) {
		t.Parallel()

		rules := []parity.RewriteRule{{From: "/img/", To: "/assets/"}, {From: "/docs", To: "/guides"}}

		out, err := regen.Sanitize(`<a href="/docs/start"><img src="/img/a.png"></a>`, rules)

		require.NoError(t, err)
		assert.Equal(t, `<a href="/guides/start"><img src="/assets/a.png"/></a>`, out)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		t.Parallel()

		out, err := regen.Sanitize("  ", nil)

		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestRewriteLink(t *testing.T) {
	t.Parallel()

	rules := []parity.RewriteRule{
		{From: "/blog/2020", To: "/archive/2020"},
		{From: "/blog", To: "/news"},
		{From: "/news", To: "/updates"},
	}

	tests := []struct {
		in   string
		want string
	}{
		{"/blog/2020/post", "/archive/2020/post"},
		{"/blog/other", "/news/other"},
		{"/blog/a?ref=/blog", "/news/a?ref=/news"},
		{"/news/x", "/updates/x"},
		{"/contact", "/contact"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, regen.RewriteLink(tt.in, rules))
		})
	}

	assert.False(t, strings.Contains(regen.RewriteLink("/blog", rules), "/updates"), "rules must not chain")
}
