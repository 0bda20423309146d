package parity

import "time"

// FetchStatus records the outcome of fetching a page.
type FetchStatus string

// Fetch statuses.
const (
	StatusOK       FetchStatus = "ok"
	StatusNotFound FetchStatus = "not-found"
	StatusError    FetchStatus = "error"
)

// Page represents one fetched URL of a site.
type Page struct {
	// URL is the absolute URL as fetched (after redirects).
	URL string `json:"url"`

	// Route is the normalized path and the page's identity within its site.
	Route string `json:"route"`

	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	CanonicalURL    string   `json:"canonicalUrl"`
	H1              string   `json:"h1"`
	H2              []string `json:"h2"`

	// MainContentHTML is the primary content region with navigation,
	// header, footer and scripts removed.
	MainContentHTML string `json:"mainContentHtml"`

	// MainContentText is the whitespace-normalized text of MainContentHTML.
	MainContentText string `json:"mainContentText"`

	// ContentHash fingerprints MainContentText.
	ContentHash string `json:"contentHash"`

	// OutboundLinks holds the same-site routes discovered on the page.
	OutboundLinks []string `json:"outboundLinks"`

	Depth        int         `json:"depth"`
	Status       FetchStatus `json:"fetchStatus"`
	StatusReason string      `json:"statusReason,omitempty"`
	FetchedAt    time.Time   `json:"fetchedAt"`
}

// OK returns true if the page was fetched successfully.
func (p *Page) OK() bool {
	return p.Status == StatusOK
}

// Inventory maps routes to pages for one site. Routes are unique: storing a
// page for an existing route replaces it in place. Iteration follows the
// order in which routes were first stored.
//
// Inventory is not safe for concurrent writes. The crawler has a single
// writer; downstream stages only read.
type Inventory struct {
	// Root is the root URL of the crawled site.
	Root string

	pages map[string]*Page
	order []string
}

// NewInventory returns an empty inventory for the site at root.
func NewInventory(root string) *Inventory {
	return &Inventory{
		Root:  root,
		pages: make(map[string]*Page),
	}
}

// Put stores a page under its route, overwriting any previous page.
func (inv *Inventory) Put(p *Page) {
	if _, ok := inv.pages[p.Route]; !ok {
		inv.order = append(inv.order, p.Route)
	}
	inv.pages[p.Route] = p
}

// Get returns the page stored for route, or nil.
func (inv *Inventory) Get(route string) *Page {
	if inv == nil {
		return nil
	}
	return inv.pages[route]
}

// Len returns the number of routes in the inventory.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.order)
}

// Routes returns all routes in first-stored order.
func (inv *Inventory) Routes() []string {
	if inv == nil {
		return nil
	}
	routes := make([]string, len(inv.order))
	copy(routes, inv.order)
	return routes
}

// Pages returns all pages in first-stored order.
func (inv *Inventory) Pages() []*Page {
	if inv == nil {
		return nil
	}
	pages := make([]*Page, 0, len(inv.order))
	for _, route := range inv.order {
		pages = append(pages, inv.pages[route])
	}
	return pages
}

// OKCount returns the number of successfully fetched pages.
func (inv *Inventory) OKCount() int {
	n := 0
	for _, p := range inv.Pages() {
		if p.OK() {
			n++
		}
	}
	return n
}

// FailureCount returns the number of pages whose fetch did not succeed.
func (inv *Inventory) FailureCount() int {
	return inv.Len() - inv.OKCount()
}

// RenderedDocument is the DOM of a page after client-side rendering settled.
type RenderedDocument struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after following redirects.
	FinalURL string

	StatusCode int
	HTML       string
}

// BaseURL returns the URL relative links in the document resolve against.
func (d *RenderedDocument) BaseURL() string {
	if d.FinalURL != "" {
		return d.FinalURL
	}
	return d.URL
}
