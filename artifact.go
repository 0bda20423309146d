package parity

import (
	"context"
	"time"
)

// RewriteRule replaces From with To inside internal link values.
// Rules are applied in order and the first rule whose From occurs in a link
// wins, so more specific prefixes must come before the prefixes they extend.
type RewriteRule struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Artifact is the regenerated content for a page that failed the parity bar.
// The source page is authoritative for its content.
type Artifact struct {
	ID string `json:"id"`

	// Route is where the page should live on the target site.
	Route        string `json:"route"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CanonicalURL string `json:"canonicalUrl"`

	// SanitizedHTML is the source main content with scripts, styles and
	// comments removed and domains and links rewritten for the target.
	SanitizedHTML string `json:"sanitizedHtml"`

	// Markdown is SanitizedHTML converted for markdown-based authoring systems.
	Markdown string `json:"markdown,omitempty"`

	// SourceRoute records provenance.
	SourceRoute    string         `json:"sourceRoute"`
	Classification Classification `json:"classification"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// Validate returns an error if the artifact contains invalid fields.
func (a *Artifact) Validate() error {
	if a.Route == "" {
		return Errorf(EINVALID, "artifact route required")
	}
	if a.SourceRoute == "" {
		return Errorf(EINVALID, "artifact source route required")
	}
	return nil
}

// Publisher writes artifacts into the target site's content store.
type Publisher interface {
	Publish(ctx context.Context, a *Artifact) error
}

// PublishFunc adapts a function to the Publisher interface.
type PublishFunc func(ctx context.Context, a *Artifact) error

// Publish calls f(ctx, a).
func (f PublishFunc) Publish(ctx context.Context, a *Artifact) error {
	return f(ctx, a)
}

// ArtifactService stores and retrieves published artifacts.
type ArtifactService interface {
	Publisher

	// FindArtifactByID retrieves an artifact by ID.
	// Returns ENOTFOUND if the artifact does not exist.
	FindArtifactByID(ctx context.Context, id string) (*Artifact, error)

	// FindArtifacts retrieves artifacts ordered by route.
	FindArtifacts(ctx context.Context, filter ArtifactFilter) ([]*Artifact, error)
}

// ArtifactFilter represents a filter for FindArtifacts.
type ArtifactFilter struct {
	Route          *string         `json:"route"`
	Classification *Classification `json:"classification"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
