package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/parity"
	"github.com/fwojciec/parity/crawl"
)

// Run executes the reports command.
func (c *ReportsCmd) Run(deps *Dependencies) error {
	filter := parity.ReportFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.SourceRoot = &c.Source
	}
	if c.Target != "" {
		filter.TargetRoot = &c.Target
	}

	reports, err := deps.Reports.FindReports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", parity.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports found. Use 'parity check' to run one.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSOURCE\tTARGET\tIDENTICAL\tPARTIAL\tDIVERGENT\tMISSING")
	for _, r := range reports {
		c := r.Counts
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			crawl.TruncateURL(r.SourceRoot, 40),
			crawl.TruncateURL(r.TargetRoot, 40),
			c.Identical, c.Partial, c.Divergent, c.Missing,
		)
	}
	return tw.Flush()
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rep, err := deps.Reports.FindReportByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", parity.ErrorMessage(err))
		return err
	}
	return writeReport(deps, c.Format, rep)
}
