package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/parity"
)

// Compile-time interface verification.
var _ parity.ReportService = (*ReportService)(nil)

// ReportService implements parity.ReportService using SQLite.
//
// The report document is stored as JSON in the reports table, while its
// verdicts live in the pairs table so they can be queried per route.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// PersistReport stores a report and its verdicts in a single transaction.
// Returns ECONFLICT if a report with the same ID already exists.
func (s *ReportService) PersistReport(ctx context.Context, r *parity.Report) error {
	if r == nil || r.ID == "" {
		return parity.Errorf(parity.EINVALID, "report ID required")
	}

	body := *r
	body.Pairs = nil
	data, err := json.Marshal(&body)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports WHERE id = ?", r.ID).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return parity.Errorf(parity.ECONFLICT, "report %s already exists", r.ID)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reports (id, source_root, target_root, started_at, finished_at, degenerate, canceled, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.SourceRoot, r.TargetRoot, formatTime(r.StartedAt), formatTime(r.FinishedAt),
		boolToInt(r.Degenerate), boolToInt(r.Canceled), string(data)); err != nil {
		return err
	}

	for i, v := range r.Pairs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pairs (report_id, position, source_route, target_route, match_type, confidence, similarity, classification)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, i, v.SourceRoute, v.TargetRoute, string(v.MatchType), v.Confidence, v.Similarity,
			string(v.Classification)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindReportByID retrieves a report by ID.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*parity.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM reports WHERE id = ?", id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, parity.Errorf(parity.ENOTFOUND, "report not found")
	}
	if err != nil {
		return nil, err
	}
	return s.decode(ctx, body)
}

// FindReports retrieves reports matching the filter, most recent first.
func (s *ReportService) FindReports(ctx context.Context, filter parity.ReportFilter) ([]*parity.Report, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT body FROM reports WHERE 1=1")

	if filter.SourceRoot != nil {
		query.WriteString(" AND source_root = ?")
		args = append(args, *filter.SourceRoot)
	}
	if filter.TargetRoot != nil {
		query.WriteString(" AND target_root = ?")
		args = append(args, *filter.TargetRoot)
	}

	query.WriteString(" ORDER BY started_at DESC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}

	// Pairs are loaded after the cursor is released; the pool holds a
	// single connection.
	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			rows.Close()
			return nil, err
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	reports := make([]*parity.Report, 0, len(bodies))
	for _, body := range bodies {
		r, err := s.decode(ctx, body)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// DeleteReport permanently removes a report and its verdicts.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return parity.Errorf(parity.ENOTFOUND, "report not found")
	}

	return nil
}

func (s *ReportService) decode(ctx context.Context, body string) (*parity.Report, error) {
	var r parity.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	pairs, err := s.findPairs(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Pairs = pairs
	return &r, nil
}

func (s *ReportService) findPairs(ctx context.Context, reportID string) ([]parity.Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_route, target_route, match_type, confidence, similarity, classification
		FROM pairs
		WHERE report_id = ?
		ORDER BY position ASC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := []parity.Verdict{}
	for rows.Next() {
		var v parity.Verdict
		var matchType, classification string
		if err := rows.Scan(&v.SourceRoute, &v.TargetRoute, &matchType, &v.Confidence, &v.Similarity, &classification); err != nil {
			return nil, err
		}
		v.MatchType = parity.MatchType(matchType)
		v.Classification = parity.Classification(classification)
		pairs = append(pairs, v)
	}
	return pairs, rows.Err()
}
