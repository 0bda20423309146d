// Package goquery extracts page metadata, main content and links from
// rendered HTML using CSS selectors.
package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parity"
	"golang.org/x/net/html"
)

// Ensure Extractor implements parity.Extractor at compile time.
var _ parity.Extractor = (*Extractor)(nil)

// DefaultMinContentLength is the number of characters a content region must
// exceed to qualify as main content.
const DefaultMinContentLength = 500

// DefaultContentCandidates are the selectors tried, in order, before falling
// back to the largest <div>.
var DefaultContentCandidates = []string{
	`[role="main"], main`,
	"article",
}

// DefaultSentinels are phrases that mark a region as an error page rather
// than content. Matching is case-insensitive.
var DefaultSentinels = []string{
	"page not found",
	"404 not found",
	"nothing was found",
}

// boilerplate is removed before content regions are measured.
const boilerplate = "nav, header, footer, aside, script, style, noscript"

// Extractor implements parity.Extractor.
type Extractor struct {
	// ContentCandidates are tried in order; the first qualifying match wins.
	// When none qualifies the largest qualifying <div> is used.
	ContentCandidates []string

	MinContentLength int
	Sentinels        []string

	// Fallbacks run on the raw HTML when no DOM region qualifies.
	Fallbacks []parity.ContentExtractor
}

// NewExtractor returns an Extractor with default candidates, floor and
// sentinels.
func NewExtractor(fallbacks ...parity.ContentExtractor) *Extractor {
	return &Extractor{
		ContentCandidates: DefaultContentCandidates,
		MinContentLength:  DefaultMinContentLength,
		Sentinels:         DefaultSentinels,
		Fallbacks:         fallbacks,
	}
}

// Extract parses doc and returns its metadata, main content and links.
func (e *Extractor) Extract(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
	if doc == nil || strings.TrimSpace(doc.HTML) == "" {
		return nil, parity.Errorf(parity.EINVALID, "empty document")
	}

	base, err := url.Parse(doc.BaseURL())
	if err != nil {
		return nil, parity.Errorf(parity.EINVALID, "invalid base URL: %v", err)
	}

	dom, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, parity.Errorf(parity.EINVALID, "failed to parse HTML: %v", err)
	}

	res := &parity.ExtractResult{
		Title: firstNonEmpty(
			parity.CollapseWhitespace(dom.Find("title").First().Text()),
			metaContent(dom, `meta[property="og:title"]`),
		),
		MetaDescription: firstNonEmpty(
			metaContent(dom, `meta[name="description"]`),
			metaContent(dom, `meta[property="og:description"]`),
		),
		H1: parity.CollapseWhitespace(dom.Find("h1").First().Text()),
		H2: []string{},
	}
	if href, ok := dom.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		res.CanonicalURL = resolveAbsolute(base, href)
	}
	dom.Find("h2").Each(func(_ int, sel *goquery.Selection) {
		if text := parity.CollapseWhitespace(sel.Text()); text != "" {
			res.H2 = append(res.H2, text)
		}
	})

	// Links come from the whole page, navigation included.
	res.Links = extractLinks(dom, base)

	dom.Find(boilerplate).Remove()
	for _, n := range dom.Nodes {
		removeComments(n)
	}

	if sel := e.selectRegion(dom); sel != nil {
		content, err := sel.Html()
		if err != nil {
			return nil, parity.Errorf(parity.EINTERNAL, "failed to render content: %v", err)
		}
		res.MainContentHTML = strings.TrimSpace(content)
		res.MainContentText = selectionText(sel)
		return res, nil
	}

	for _, fb := range e.Fallbacks {
		content, err := fb.ExtractContent(doc.HTML, doc.BaseURL())
		if err != nil {
			continue
		}
		text, err := HTMLText(content)
		if err != nil || !e.qualifies(text) {
			continue
		}
		res.MainContentHTML = strings.TrimSpace(content)
		res.MainContentText = text
		return res, nil
	}

	res.Warnings = append(res.Warnings, parity.WarnNoMainContent)
	return res, nil
}

// selectRegion returns the first qualifying content region, or nil.
func (e *Extractor) selectRegion(dom *goquery.Document) *goquery.Selection {
	for _, selector := range e.ContentCandidates {
		sel := dom.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if e.qualifies(selectionText(sel)) {
			return sel
		}
	}

	var best *goquery.Selection
	bestLen := 0
	dom.Find("div").Each(func(_ int, sel *goquery.Selection) {
		text := selectionText(sel)
		n := utf8.RuneCountInString(text)
		if n > bestLen && e.qualifies(text) {
			best, bestLen = sel, n
		}
	})
	return best
}

// qualifies reports whether text is long enough and free of sentinels.
func (e *Extractor) qualifies(text string) bool {
	if utf8.RuneCountInString(text) <= e.MinContentLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, s := range e.Sentinels {
		if strings.Contains(lower, strings.ToLower(s)) {
			return false
		}
	}
	return true
}

// HTMLText returns the whitespace-collapsed text of an HTML fragment.
// Block boundaries separate words, so "<p>a</p><p>b</p>" yields "a b".
func HTMLText(fragment string) (string, error) {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", parity.Errorf(parity.EINVALID, "failed to parse HTML: %v", err)
	}
	dom.Find("script, style, noscript").Remove()
	return selectionText(dom.Selection), nil
}

func selectionText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return parity.CollapseWhitespace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}
	block := n.Type == html.ElementNode && !inline[n.Data]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte(' ')
	}
}

// inline elements do not separate words.
var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "em": true, "i": true,
	"mark": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "u": true,
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

func metaContent(dom *goquery.Document, selector string) string {
	content, _ := dom.Find(selector).First().Attr("content")
	return parity.CollapseWhitespace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
