// Package trafilatura adapts go-trafilatura as a main-content fallback for
// pages whose markup has no usable content landmark.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/parity"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements parity.ContentExtractor at compile time.
var _ parity.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name returns "trafilatura".
func (e *Extractor) Name() string {
	return "trafilatura"
}

// ExtractContent processes raw HTML and returns the main content as HTML.
func (e *Extractor) ExtractContent(rawHTML string, pageURL string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", parity.Errorf(parity.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}
	if result.ContentNode == nil {
		return "", nil
	}
	return renderNode(result.ContentNode)
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
