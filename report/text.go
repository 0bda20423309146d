package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/crawl"
)

// maxRouteWidth bounds route columns in the text summary.
const maxRouteWidth = 48

// Text writes a human-readable summary of r to w.
func Text(w io.Writer, r *parity.Report) error {
	c := r.Counts
	ew := &errWriter{w: w}

	ew.printf("Parity report %s\n", r.ID)
	ew.printf("  source: %s (%d pages, %d failed)\n", r.SourceRoot, c.SourceCount, c.SourceFailures)
	ew.printf("  target: %s (%d pages, %d failed)\n", r.TargetRoot, c.TargetCount, c.TargetFailures)
	ew.printf("  duration: %s\n", crawl.FormatDuration(r.FinishedAt.Sub(r.StartedAt)))
	if r.Canceled {
		ew.printf("  run canceled: results are partial\n")
	}
	if r.Degenerate {
		ew.printf("  nothing to compare: %s\n", r.DegenerateReason)
	}
	ew.printf("\n%d matched, %d identical, %d partial, %d divergent, %d missing\n",
		c.Matched, c.Identical, c.Partial, c.Divergent, c.Missing)
	ew.printf("%d artifacts, %d publish failures\n", c.Artifacts, c.PublishFailures)
	if r.ArtifactsWithheld != "" {
		ew.printf("%d artifacts withheld: %s\n", c.Withheld, r.ArtifactsWithheld)
	}
	if ew.err != nil {
		return ew.err
	}

	var rows []parity.Verdict
	for _, v := range r.Pairs {
		if v.NeedsRegeneration() {
			rows = append(rows, v)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	ew.printf("\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASSIFICATION\tSOURCE\tTARGET\tSIMILARITY")
	for _, v := range rows {
		target := v.TargetRoute
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n",
			v.Classification,
			crawl.TruncateURL(v.SourceRoute, maxRouteWidth),
			crawl.TruncateURL(target, maxRouteWidth),
			v.Similarity,
		)
	}
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
