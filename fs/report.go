package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/parity"
)

// Ensure ReportWriter implements parity.ReportSink at compile time.
var _ parity.ReportSink = (*ReportWriter)(nil)

// ReportWriter writes each report to dir/<id>.json.
type ReportWriter struct {
	dir string
}

// NewReportWriter creates a new ReportWriter.
func NewReportWriter(dir string) *ReportWriter {
	return &ReportWriter{dir: dir}
}

// Path returns the file a report with the given ID is written to.
func (w *ReportWriter) Path(id string) string {
	return filepath.Join(w.dir, id+".json")
}

// PersistReport writes r as indented JSON. The file is written under a
// temporary name first and renamed into place.
func (w *ReportWriter) PersistReport(ctx context.Context, r *parity.Report) error {
	if r.ID == "" {
		return parity.Errorf(parity.EINVALID, "report ID required")
	}
	if filepath.Base(r.ID) != r.ID {
		return parity.Errorf(parity.EINVALID, "invalid report ID %q", r.ID)
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return parity.Errorf(parity.EINTERNAL, "encode report: %v", err)
	}

	tmp := w.Path(r.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, w.Path(r.ID))
}
