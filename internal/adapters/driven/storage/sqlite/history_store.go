package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

const searchColumns = `id, database_path, query, window_start, window_end, accuracy_ns,
	started_at, finished_at, result_timestamp, probes, budget, inconclusive_probes, error`

// Add inserts rec and sets its ID.
func (s *historyStore) Add(ctx context.Context, rec *domain.SearchRecord) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO searches (database_path, query, window_start, window_end, accuracy_ns,
			started_at, finished_at, result_timestamp, probes, budget, inconclusive_probes, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Database, rec.Query,
		formatTime(rec.Window.Start), formatTime(rec.Window.End), int64(rec.Accuracy),
		formatTime(rec.StartedAt), formatTime(rec.FinishedAt), formatNullableTime(rec.Timestamp),
		rec.Probes, rec.Budget, rec.InconclusiveProbes, nullString(rec.Error))
	if err != nil {
		return fmt.Errorf("saving search: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading search id: %w", err)
	}
	rec.ID = id
	return nil
}

// List returns the newest searches first.
func (s *historyStore) List(ctx context.Context, database string, limit int) ([]domain.SearchRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if database == "" {
		rows, err = s.store.db.QueryContext(ctx,
			`SELECT `+searchColumns+` FROM searches ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = s.store.db.QueryContext(ctx,
			`SELECT `+searchColumns+` FROM searches WHERE database_path = ? ORDER BY id DESC LIMIT ?`,
			database, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanSearchRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating searches: %w", err)
	}

	return records, nil
}

// Prune removes all but the most recent keep searches.
func (s *historyStore) Prune(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM searches
		WHERE id NOT IN (SELECT id FROM searches ORDER BY id DESC LIMIT ?)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning searches: %w", err)
	}
	return nil
}

// Clear deletes every search.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM searches"); err != nil {
		return fmt.Errorf("clearing searches: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *historyStore) Close() error {
	return s.store.Close()
}

// ==================== Helper Functions ====================

// scanSearchRecord scans a search from *sql.Rows.
func scanSearchRecord(rows *sql.Rows) (*domain.SearchRecord, error) {
	var rec domain.SearchRecord
	var windowStart, windowEnd, startedAt, finishedAt string
	var accuracy int64
	var result, errMsg sql.NullString

	if err := rows.Scan(&rec.ID, &rec.Database, &rec.Query, &windowStart, &windowEnd, &accuracy,
		&startedAt, &finishedAt, &result, &rec.Probes, &rec.Budget, &rec.InconclusiveProbes,
		&errMsg); err != nil {
		return nil, fmt.Errorf("scanning search: %w", err)
	}

	rec.Window = domain.Window{Start: parseTime(windowStart), End: parseTime(windowEnd)}
	rec.Accuracy = time.Duration(accuracy)
	rec.StartedAt = parseTime(startedAt)
	rec.FinishedAt = parseTime(finishedAt)
	rec.Timestamp = parseNullableTime(result)
	if errMsg.Valid {
		rec.Error = errMsg.String
	}

	return &rec, nil
}

// formatTime keeps nanoseconds; stored timestamps are search results.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatNullableTime formats t, or returns nil for the zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseNullableTime parses a nullable timestamp. Returns zero time if the
// value is NULL or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	return parseTime(s.String)
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
