// Package pipeline runs a complete parity check: crawl both sites, match,
// diff, regenerate, publish and report.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/crawl"
	"github.com/fwojciec/parity/diff"
	"github.com/fwojciec/parity/match"
	"github.com/fwojciec/parity/regen"
	"github.com/fwojciec/parity/report"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SiteCrawler builds the inventory of one site.
type SiteCrawler interface {
	Crawl(ctx context.Context, root string, opts parity.CrawlOptions) (*parity.Inventory, *crawl.Stats, error)
}

// Ensure crawl.Crawler implements SiteCrawler at compile time.
var _ SiteCrawler = (*crawl.Crawler)(nil)

// Runner wires the pipeline stages together.
type Runner struct {
	Crawler SiteCrawler

	// Converter adds Markdown to artifacts. Optional.
	Converter parity.Converter

	// Publisher receives every artifact. Optional.
	Publisher parity.Publisher

	// ReportSink persists the final report. Optional.
	ReportSink parity.ReportSink

	Logger *slog.Logger
	Now    func() time.Time
}

// RunParityCheck compares the site at sourceRoot with the site at targetRoot.
//
// Invalid options or roots are rejected with ECONFIG before any network
// activity. If ctx is canceled mid-run, the report is built from the
// partial inventories, nothing is published, and the report is returned
// together with the context error.
func (r *Runner) RunParityCheck(ctx context.Context, sourceRoot, targetRoot string, opts parity.Options) (*parity.Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateRoot("source", sourceRoot); err != nil {
		return nil, err
	}
	if err := validateRoot("target", targetRoot); err != nil {
		return nil, err
	}

	logger := r.logger()
	started := r.now()
	id := uuid.NewString()
	logger = logger.With("run", id)
	logger.Info("parity check started", "source", sourceRoot, "target", targetRoot)

	src, tgt, err := r.crawlBoth(ctx, sourceRoot, targetRoot, opts.CrawlOptions())
	canceled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if err != nil && !canceled {
		return nil, err
	}

	pairs := match.NewMatcher(opts.MatchThreshold).Match(src, tgt)
	verdicts := diff.NewDiffer(opts.Thresholds()).Diff(pairs, src, tgt)

	in := report.Input{
		ID:         id,
		SourceRoot: sourceRoot,
		TargetRoot: targetRoot,
		StartedAt:  started,
		Source:     src,
		Target:     tgt,
		Verdicts:   verdicts,
		Published:  map[string]bool{},
		Canceled:   canceled,
	}

	degenerate := src.OKCount() == 0 || tgt.OKCount() == 0
	switch {
	case degenerate:
		logger.Warn("nothing to compare", "sourcePages", src.OKCount(), "targetPages", tgt.OKCount())
		in.ArtifactsWithheld = "regeneration skipped because one site has no fetched pages"
	default:
		regenerator := regen.NewRegenerator(sourceRoot, targetRoot, opts.LinkRewriteTable, r.Converter)
		regenerator.Logger = logger
		regenerator.Now = r.now
		artifacts, err := regenerator.Regenerate(verdicts, src, tgt)
		if err != nil {
			return nil, err
		}
		in.Artifacts = artifacts
		if !canceled {
			in.PublishFailures = r.publish(ctx, logger, artifacts, in.Published)
		}
	}

	in.FinishedAt = r.now()
	rep := report.Build(in)

	if r.ReportSink != nil {
		// A canceled run still leaves a record of what was gathered.
		if perr := r.ReportSink.PersistReport(context.WithoutCancel(ctx), rep); perr != nil {
			return rep, parity.Errorf(parity.EINTERNAL, "persist report: %v", perr)
		}
	}

	logger.Info("parity check finished",
		"identical", rep.Counts.Identical,
		"partial", rep.Counts.Partial,
		"divergent", rep.Counts.Divergent,
		"missing", rep.Counts.Missing,
		"artifacts", rep.Counts.Artifacts,
		"canceled", canceled)

	if canceled {
		return rep, err
	}
	return rep, nil
}

// crawlBoth crawls the two sites concurrently. Partial inventories are
// returned even when err is a context error.
func (r *Runner) crawlBoth(ctx context.Context, sourceRoot, targetRoot string, opts parity.CrawlOptions) (src, tgt *parity.Inventory, err error) {
	var g errgroup.Group
	g.Go(func() error {
		inv, _, err := r.Crawler.Crawl(ctx, sourceRoot, opts)
		src = inv
		return err
	})
	g.Go(func() error {
		inv, _, err := r.Crawler.Crawl(ctx, targetRoot, opts)
		tgt = inv
		return err
	})
	err = g.Wait()

	if src == nil {
		src = parity.NewInventory(sourceRoot)
	}
	if tgt == nil {
		tgt = parity.NewInventory(targetRoot)
	}
	return src, tgt, err
}

// publish hands every artifact to the publisher and returns the number of
// failures. Successful artifact IDs are recorded in published.
func (r *Runner) publish(ctx context.Context, logger *slog.Logger, artifacts []*parity.Artifact, published map[string]bool) int {
	if r.Publisher == nil {
		return 0
	}
	failures := 0
	for _, a := range artifacts {
		if err := r.Publisher.Publish(ctx, a); err != nil {
			failures++
			logger.Warn("publish failed", "route", a.Route, "err", err)
			continue
		}
		published[a.ID] = true
	}
	return failures
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func validateRoot(name, root string) error {
	u, err := url.Parse(root)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return parity.Errorf(parity.ECONFIG, "invalid %s root %q", name, root)
	}
	return nil
}
