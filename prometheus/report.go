package prometheus

import (
	"context"

	"github.com/fwojciec/parity"
)

// Ensure ReportSink implements parity.ReportSink at compile time.
var _ parity.ReportSink = (*ReportSink)(nil)

// ReportSink records the outcome of each run before handing the report on.
// A nil next sink only records.
type ReportSink struct {
	next    parity.ReportSink
	metrics *Metrics
}

// NewReportSink returns a ReportSink recording into m.
func NewReportSink(next parity.ReportSink, m *Metrics) *ReportSink {
	return &ReportSink{next: next, metrics: m}
}

// PersistReport records r and delegates to the wrapped sink.
func (s *ReportSink) PersistReport(ctx context.Context, r *parity.Report) error {
	m := s.metrics

	m.RunsTotal.WithLabelValues(runResult(r)).Inc()

	c := r.Counts
	m.LastRunPages.WithLabelValues("source").Set(float64(c.SourceCount))
	m.LastRunPages.WithLabelValues("target").Set(float64(c.TargetCount))
	m.LastRunVerdict.WithLabelValues(string(parity.Identical)).Set(float64(c.Identical))
	m.LastRunVerdict.WithLabelValues(string(parity.Partial)).Set(float64(c.Partial))
	m.LastRunVerdict.WithLabelValues(string(parity.Divergent)).Set(float64(c.Divergent))
	m.LastRunVerdict.WithLabelValues(string(parity.Missing)).Set(float64(c.Missing))

	if s.next == nil {
		return nil
	}
	return s.next.PersistReport(ctx, r)
}

func runResult(r *parity.Report) string {
	switch {
	case r.Canceled:
		return "canceled"
	case r.Degenerate:
		return "degenerate"
	default:
		return "complete"
	}
}
