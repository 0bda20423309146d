package mock

import (
	"context"

	"github.com/fwojciec/parity"
)

var _ parity.ReportSink = (*ReportSink)(nil)

// ReportSink is a mock implementation of parity.ReportSink.
type ReportSink struct {
	PersistReportFn func(ctx context.Context, r *parity.Report) error
}

func (s *ReportSink) PersistReport(ctx context.Context, r *parity.Report) error {
	return s.PersistReportFn(ctx, r)
}

var _ parity.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of parity.ReportService.
type ReportService struct {
	PersistReportFn  func(ctx context.Context, r *parity.Report) error
	FindReportByIDFn func(ctx context.Context, id string) (*parity.Report, error)
	FindReportsFn    func(ctx context.Context, filter parity.ReportFilter) ([]*parity.Report, error)
}

func (s *ReportService) PersistReport(ctx context.Context, r *parity.Report) error {
	return s.PersistReportFn(ctx, r)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*parity.Report, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter parity.ReportFilter) ([]*parity.Report, error) {
	return s.FindReportsFn(ctx, filter)
}
