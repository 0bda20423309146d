package regen

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/parity"
	"golang.org/x/net/html"
)

// unsafe elements are dropped from regenerated content.
const unsafe = "script, style, noscript"

// Sanitize removes scripts, styles, comments and inline event handlers from
// an HTML fragment, then applies the link rewrite rules to every href and
// src attribute.
func Sanitize(fragment string, rules []parity.RewriteRule) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", parity.Errorf(parity.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(unsafe).Remove()
	for _, n := range doc.Nodes {
		stripNode(n)
	}

	doc.Find("[href], [src]").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"href", "src"} {
			if v, ok := sel.Attr(attr); ok {
				sel.SetAttr(attr, RewriteLink(v, rules))
			}
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", parity.Errorf(parity.EINTERNAL, "failed to render HTML: %v", err)
	}
	return strings.TrimSpace(out), nil
}

// RewriteLink applies the first rule whose From occurs in link, replacing
// every occurrence of it. Later rules are not consulted.
func RewriteLink(link string, rules []parity.RewriteRule) string {
	for _, r := range rules {
		if r.From != "" && strings.Contains(link, r.From) {
			return strings.ReplaceAll(link, r.From, r.To)
		}
	}
	return link
}

// stripNode removes comments and on* attributes below n.
func stripNode(n *html.Node) {
	if n.Type == html.ElementNode {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			if !strings.HasPrefix(strings.ToLower(a.Key), "on") {
				attrs = append(attrs, a)
			}
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			stripNode(c)
		}
		c = next
	}
}
