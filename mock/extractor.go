package mock

import "github.com/fwojciec/parity"

var _ parity.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of parity.Extractor.
type Extractor struct {
	ExtractFn func(doc *parity.RenderedDocument) (*parity.ExtractResult, error)
}

func (e *Extractor) Extract(doc *parity.RenderedDocument) (*parity.ExtractResult, error) {
	return e.ExtractFn(doc)
}

var _ parity.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of parity.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html, pageURL string) (string, error)
	NameFn           func() string
}

func (e *ContentExtractor) ExtractContent(html, pageURL string) (string, error) {
	return e.ExtractContentFn(html, pageURL)
}

func (e *ContentExtractor) Name() string {
	return e.NameFn()
}
