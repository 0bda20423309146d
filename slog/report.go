package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parity"
)

// Ensure LoggingReportSink implements parity.ReportSink.
var _ parity.ReportSink = (*LoggingReportSink)(nil)

// LoggingReportSink wraps a ReportSink with logging.
type LoggingReportSink struct {
	next   parity.ReportSink
	logger *slog.Logger
}

// NewLoggingReportSink creates a new LoggingReportSink.
func NewLoggingReportSink(next parity.ReportSink, logger *slog.Logger) *LoggingReportSink {
	return &LoggingReportSink{next: next, logger: logger}
}

// PersistReport delegates to the wrapped sink and logs the report summary.
func (s *LoggingReportSink) PersistReport(ctx context.Context, r *parity.Report) (err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "persist report",
			"id", r.ID,
			"pairs", len(r.Pairs),
			"artifacts", r.Counts.Artifacts,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PersistReport(ctx, r)
}
