package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/parity"
	"gopkg.in/yaml.v3"
)

// Ensure ArtifactStore implements parity.Publisher at compile time.
var _ parity.Publisher = (*ArtifactStore)(nil)

// frontMatter is the YAML header of an artifact file.
type frontMatter struct {
	Route          string                `yaml:"route"`
	Title          string                `yaml:"title"`
	Description    string                `yaml:"description,omitempty"`
	Canonical      string                `yaml:"canonical"`
	Source         string                `yaml:"source"`
	Classification parity.Classification `yaml:"classification"`
	Generated      time.Time             `yaml:"generated"`
}

// FormatArtifact renders body with the artifact's YAML front matter.
func FormatArtifact(a *parity.Artifact, body string) (string, error) {
	header, err := yaml.Marshal(frontMatter{
		Route:          a.Route,
		Title:          a.Title,
		Description:    a.Description,
		Canonical:      a.CanonicalURL,
		Source:         a.SourceRoute,
		Classification: a.Classification,
		Generated:      a.GeneratedAt,
	})
	if err != nil {
		return "", parity.Errorf(parity.EINTERNAL, "encode front matter: %v", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String(), nil
}

// ArtifactStore publishes artifacts as files with atomic update semantics.
// Artifacts are written to a temporary directory, then moved into place on
// Commit, so a failed or canceled run never leaves a half-written tree.
type ArtifactStore struct {
	baseDir string
	name    string
}

// NewArtifactStore creates a new ArtifactStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewArtifactStore(baseDir, name string) *ArtifactStore {
	return &ArtifactStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ArtifactStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ArtifactStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Publish writes route.html and, when Markdown is present, route.md.
func (s *ArtifactStore) Publish(ctx context.Context, a *parity.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}

	if err := s.write(a, ".html", a.SanitizedHTML); err != nil {
		return err
	}
	if a.Markdown != "" {
		return s.write(a, ".md", a.Markdown)
	}
	return nil
}

func (s *ArtifactStore) write(a *parity.Artifact, ext, body string) error {
	relPath, err := RouteToPath(a.Route, ext)
	if err != nil {
		return err
	}
	content, err := FormatArtifact(a, body)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the final directory with everything published so far.
func (s *ArtifactStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything published since the last Commit.
func (s *ArtifactStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
