package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/report"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	rep, err := deps.Checker.RunParityCheck(deps.Ctx, c.Source, c.Target, deps.Options)
	if rep == nil {
		c.abort(deps)
		fmt.Fprintf(deps.Stderr, "error: %s\n", parity.ErrorMessage(err))
		return err
	}

	// Only a complete run replaces published content.
	if err != nil || rep.Canceled || rep.Degenerate {
		c.abort(deps)
	} else if deps.Store != nil {
		if cerr := deps.Store.Commit(); cerr != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to commit published pages: %v\n", cerr)
			return cerr
		}
	}

	if werr := writeReport(deps, c.Format, rep); werr != nil {
		return werr
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", runErrorMessage(err))
		return err
	}

	if c.FailOnDiff {
		if n := rep.Counts.Partial + rep.Counts.Divergent + rep.Counts.Missing; n > 0 {
			return fmt.Errorf("%d pages are not identical", n)
		}
	}
	return nil
}

func (c *CheckCmd) abort(deps *Dependencies) {
	if deps.Store == nil {
		return
	}
	if err := deps.Store.Abort(); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to discard unpublished pages: %v\n", err)
	}
}

func writeReport(deps *Dependencies, format string, rep *parity.Report) error {
	if format == "json" {
		return report.NewJSONSink(deps.Stdout).PersistReport(deps.Ctx, rep)
	}
	return report.Text(deps.Stdout, rep)
}

func runErrorMessage(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "run interrupted, the report above is partial"
	}
	return parity.ErrorMessage(err)
}
