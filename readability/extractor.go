// Package readability adapts go-readability as a main-content fallback.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/parity"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements parity.ContentExtractor at compile time.
var _ parity.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name returns "readability".
func (e *Extractor) Name() string {
	return "readability"
}

// ExtractContent processes raw HTML and returns the article content as HTML.
func (e *Extractor) ExtractContent(rawHTML string, pageURL string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", parity.Errorf(parity.EINVALID, "empty HTML input")
	}

	u, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return "", err
	}
	return article.Content, nil
}
