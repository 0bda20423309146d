package parity

import (
	"context"
	"time"
)

// Report is the serialized outcome of one parity check run.
type Report struct {
	ID         string    `json:"id"`
	SourceRoot string    `json:"sourceRoot"`
	TargetRoot string    `json:"targetRoot"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Source []PageSummary `json:"source"`
	Target []PageSummary `json:"target"`

	Pairs     []Verdict         `json:"pairs"`
	Artifacts []ArtifactSummary `json:"artifacts"`
	Counts    Counts            `json:"counts"`

	// Degenerate is set when a site yielded no successfully fetched pages,
	// meaning there is nothing to compare.
	Degenerate       bool   `json:"degenerate"`
	DegenerateReason string `json:"degenerateReason,omitempty"`

	// ArtifactsWithheld explains why pages that need regeneration have no
	// artifacts. Counts.Withheld holds how many.
	ArtifactsWithheld string `json:"artifactsWithheld,omitempty"`

	// Canceled is set when the run was interrupted and the report was built
	// from partial inventories.
	Canceled bool `json:"canceled,omitempty"`
}

// PageSummary is the slice of a Page kept in reports.
type PageSummary struct {
	Route        string      `json:"route"`
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	H1           string      `json:"h1"`
	Status       FetchStatus `json:"fetchStatus"`
	StatusReason string      `json:"statusReason,omitempty"`
}

// ArtifactSummary identifies an artifact without its content.
type ArtifactSummary struct {
	Route          string         `json:"route"`
	SourceRoute    string         `json:"sourceRoute"`
	Classification Classification `json:"classification"`
	Published      bool           `json:"published"`
}

// Counts aggregates a report.
type Counts struct {
	SourceCount     int `json:"sourceCount"`
	TargetCount     int `json:"targetCount"`
	Matched         int `json:"matched"`
	Missing         int `json:"missing"`
	Identical       int `json:"identical"`
	Partial         int `json:"partial"`
	Divergent       int `json:"divergent"`
	SourceFailures  int `json:"sourceFailures"`
	TargetFailures  int `json:"targetFailures"`
	Artifacts       int `json:"artifacts"`
	PublishFailures int `json:"publishFailures"`
	Withheld        int `json:"withheld,omitempty"`
}

// ReportSink persists reports.
type ReportSink interface {
	PersistReport(ctx context.Context, r *Report) error
}

// ReportSinkFunc adapts a function to the ReportSink interface.
type ReportSinkFunc func(ctx context.Context, r *Report) error

// PersistReport calls f(ctx, r).
func (f ReportSinkFunc) PersistReport(ctx context.Context, r *Report) error {
	return f(ctx, r)
}

// ReportService stores and retrieves reports.
type ReportService interface {
	ReportSink

	// FindReportByID retrieves a report by ID.
	// Returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id string) (*Report, error)

	// FindReports retrieves reports, most recent first.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, error)
}

// ReportFilter represents a filter for FindReports.
type ReportFilter struct {
	SourceRoot *string `json:"sourceRoot"`
	TargetRoot *string `json:"targetRoot"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
