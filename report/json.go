package report

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/fwojciec/parity"
)

// Ensure JSONSink implements parity.ReportSink at compile time.
var _ parity.ReportSink = (*JSONSink)(nil)

// JSONSink writes each persisted report to an io.Writer as indented JSON.
type JSONSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONSink returns a sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

// PersistReport encodes r.
func (s *JSONSink) PersistReport(ctx context.Context, r *parity.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
