package parity

// Warning is a non-fatal extraction finding.
type Warning string

// WarnNoMainContent means no content region qualified as main content.
// The page is kept with empty content so the gap surfaces as a parity
// difference downstream.
const WarnNoMainContent Warning = "no-main-content-found"

// ExtractResult holds everything extracted from a rendered document.
// Fetch metadata (route, depth, status) is filled in by the caller.
type ExtractResult struct {
	Title           string
	MetaDescription string
	CanonicalURL    string
	H1              string
	H2              []string

	// MainContentHTML is the primary content region as clean HTML.
	MainContentHTML string

	// MainContentText is the whitespace-normalized text of MainContentHTML.
	MainContentText string

	// Links are absolute same-host URLs found on the page.
	Links []string

	Warnings []Warning
}

// HasWarning returns true if w was recorded during extraction.
func (r *ExtractResult) HasWarning(w Warning) bool {
	for _, got := range r.Warnings {
		if got == w {
			return true
		}
	}
	return false
}

// Extractor pulls page metadata, main content and links from a rendered document.
type Extractor interface {
	// Extract never fails on missing fields; absent metadata becomes an
	// empty string. It returns an error only for unusable input.
	Extract(doc *RenderedDocument) (*ExtractResult, error)
}

// ContentExtractor is a boilerplate-removal algorithm used as a fallback
// when no DOM region qualifies as main content.
type ContentExtractor interface {
	// ExtractContent returns the main content of a page as clean HTML.
	ExtractContent(html string, pageURL string) (contentHTML string, err error)

	// Name returns the extractor's identifier.
	Name() string
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
