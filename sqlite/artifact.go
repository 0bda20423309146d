package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/parity"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ parity.ArtifactService = (*ArtifactService)(nil)

// ArtifactService implements parity.ArtifactService using SQLite.
// It holds one artifact per route; publishing a route again replaces it.
type ArtifactService struct {
	db *DB
}

// NewArtifactService creates a new ArtifactService.
func NewArtifactService(db *DB) *ArtifactService {
	return &ArtifactService{db: db}
}

// Publish stores the artifact, replacing any artifact with the same route.
func (s *ArtifactService) Publish(ctx context.Context, a *parity.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.GeneratedAt.IsZero() {
		a.GeneratedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, route, source_route, classification, title, description, canonical_url, sanitized_html, markdown, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(route) DO UPDATE SET
			id = excluded.id,
			source_route = excluded.source_route,
			classification = excluded.classification,
			title = excluded.title,
			description = excluded.description,
			canonical_url = excluded.canonical_url,
			sanitized_html = excluded.sanitized_html,
			markdown = excluded.markdown,
			generated_at = excluded.generated_at
	`, a.ID, a.Route, a.SourceRoute, string(a.Classification), a.Title, a.Description,
		a.CanonicalURL, a.SanitizedHTML, a.Markdown, formatTime(a.GeneratedAt))

	return err
}

const artifactColumns = "id, route, source_route, classification, title, description, canonical_url, sanitized_html, markdown, generated_at"

// FindArtifactByID retrieves an artifact by ID.
func (s *ArtifactService) FindArtifactByID(ctx context.Context, id string) (*parity.Artifact, error) {
	a, err := scanArtifact(s.db.QueryRowContext(ctx, "SELECT "+artifactColumns+" FROM artifacts WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, parity.Errorf(parity.ENOTFOUND, "artifact not found")
	}
	return a, err
}

// FindArtifacts retrieves artifacts matching the filter, ordered by route.
func (s *ArtifactService) FindArtifacts(ctx context.Context, filter parity.ArtifactFilter) ([]*parity.Artifact, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + artifactColumns + " FROM artifacts WHERE 1=1")

	if filter.Route != nil {
		query.WriteString(" AND route = ?")
		args = append(args, *filter.Route)
	}
	if filter.Classification != nil {
		query.WriteString(" AND classification = ?")
		args = append(args, string(*filter.Classification))
	}

	query.WriteString(" ORDER BY route ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artifacts := []*parity.Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (*parity.Artifact, error) {
	var a parity.Artifact
	var classification, generatedAt string

	if err := row.Scan(&a.ID, &a.Route, &a.SourceRoute, &classification, &a.Title, &a.Description,
		&a.CanonicalURL, &a.SanitizedHTML, &a.Markdown, &generatedAt); err != nil {
		return nil, err
	}
	a.Classification = parity.Classification(classification)

	var err error
	a.GeneratedAt, err = parseRFC3339(generatedAt, "generated_at")
	if err != nil {
		return nil, err
	}
	return &a, nil
}
