package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/pipeline"
)

// Checker runs a parity check.
type Checker interface {
	RunParityCheck(ctx context.Context, sourceRoot, targetRoot string, opts parity.Options) (*parity.Report, error)
}

// Ensure pipeline.Runner implements Checker at compile time.
var _ Checker = (*pipeline.Runner)(nil)

// Committer finalizes or discards a batch of published artifacts.
type Committer interface {
	Commit() error
	Abort() error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Options are the resolved run options for the check command.
	Options parity.Options
	Checker Checker
	Store   Committer

	Reports parity.ReportService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Check   CheckCmd   `cmd:"" help:"Compare a source site with its migrated target"`
	Reports ReportsCmd `cmd:"" help:"List stored parity reports"`
	Show    ShowCmd    `cmd:"" help:"Show a stored parity report"`
}

// CheckCmd is the "check" subcommand.
//
// Pointer flags are nil when not given, so the config file value stands.
type CheckCmd struct {
	Source string `arg:"" help:"Root URL of the old site"`
	Target string `arg:"" help:"Root URL of the new site"`

	Config  string `short:"c" help:"YAML file with run options"`
	Fetcher string `enum:"auto,http,rod" default:"auto" help:"Page fetcher: auto probes each site, http or rod forces one"`

	MaxDepth    *int           `name:"max-depth" help:"Maximum link depth from the root"`
	MaxPages    *int           `name:"max-pages" help:"Maximum pages fetched per site"`
	Concurrency *int           `short:"n" help:"Concurrent fetches per site"`
	Delay       *time.Duration `help:"Minimum interval between requests to one site"`
	Timeout     *time.Duration `short:"t" help:"Fetch timeout per page"`
	Settle      *time.Duration `help:"Network quiet period before a rendered page is captured"`
	Identical   *float64       `help:"Minimum similarity classified as identical"`
	Partial     *float64       `help:"Minimum similarity classified as partial"`
	Match       *float64       `help:"Minimum title/heading score to pair renamed pages"`
	Exclude     []string       `short:"x" help:"Regular expression of routes to skip (repeatable)"`
	Rewrite     []string       `short:"r" help:"Link rewrite rule from=to applied to regenerated content (repeatable)"`

	Out            string `short:"o" default:"parity-out" help:"Directory regenerated pages are published to"`
	NoPublish      bool   `name:"no-publish" help:"Regenerate content without publishing it"`
	StoreArtifacts bool   `name:"store-artifacts" help:"Also keep regenerated pages in the database"`
	ReportsDir     string `name:"reports-dir" help:"Also write each report as JSON into this directory"`
	Format         string `enum:"text,json" default:"text" help:"Output format"`
	FailOnDiff     bool   `name:"fail-on-diff" help:"Exit with an error when any page is not identical"`
	MetricsAddr    string `name:"metrics-addr" help:"Serve Prometheus metrics on this address during the run"`
}

// ReportsCmd is the "reports" subcommand.
type ReportsCmd struct {
	Source string `help:"Only reports for this source root"`
	Target string `help:"Only reports for this target root"`
	Limit  int    `short:"l" default:"20" help:"Maximum reports listed"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Report ID"`
	Format string `enum:"text,json" default:"text" help:"Output format"`
}
