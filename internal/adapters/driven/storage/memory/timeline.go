package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
)

// Ensure Timeline implements the interfaces.
var (
	_ driven.SnapshotReader    = (*Timeline)(nil)
	_ driven.DatabaseInspector = (*Timeline)(nil)
)

// AnswerFunc computes the rows a query returns at ts.
type AnswerFunc func(ts time.Time, sql string) ([]domain.Row, error)

// Timeline is an in-memory point-in-time database for testing. Every
// query is answered by an AnswerFunc of the read timestamp, and every read
// is recorded.
type Timeline struct {
	mu     sync.Mutex
	info   domain.DatabaseInfo
	now    time.Time
	answer AnswerFunc
	reads  []time.Time
}

// NewTimeline creates a timeline whose server clock reads now and whose
// earliest readable version is earliest. Reads before earliest fail with
// domain.ErrStalenessExceeded. Until SetAnswer is called every query
// returns no rows.
func NewTimeline(earliest, now time.Time) *Timeline {
	return &Timeline{
		info: domain.DatabaseInfo{
			Name:                "projects/test/instances/test/databases/test",
			State:               "READY",
			EarliestVersionTime: earliest,
			RetentionPeriod:     now.Sub(earliest).String(),
		},
		now: now,
		answer: func(time.Time, string) ([]domain.Row, error) {
			return nil, nil
		},
	}
}

// SetAnswer replaces the function answering queries.
func (t *Timeline) SetAnswer(fn AnswerFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.answer = fn
}

// HoldsBefore answers every query with true strictly before boundary and
// false from boundary on.
func HoldsBefore(boundary time.Time) AnswerFunc {
	return func(ts time.Time, _ string) ([]domain.Row, error) {
		return []domain.Row{{ts.Before(boundary)}}, nil
	}
}

// DroppedAt wraps fn so that reads at or after dropped fail with
// domain.ErrObjectNotFound, as if the queried table had been dropped.
func DroppedAt(dropped time.Time, fn AnswerFunc) AnswerFunc {
	return func(ts time.Time, sql string) ([]domain.Row, error) {
		if !ts.Before(dropped) {
			return nil, domain.ErrObjectNotFound
		}
		return fn(ts, sql)
	}
}

// QueryAt implements driven.SnapshotReader.
func (t *Timeline) QueryAt(_ context.Context, ts time.Time, sql string) ([]domain.Row, error) {
	t.mu.Lock()
	t.reads = append(t.reads, ts)
	answer := t.answer
	earliest := t.info.EarliestVersionTime
	t.mu.Unlock()

	if ts.Before(earliest) {
		return nil, domain.ErrStalenessExceeded
	}
	return answer(ts, sql)
}

// Describe implements driven.DatabaseInspector.
func (t *Timeline) Describe(_ context.Context) (*domain.DatabaseInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := t.info
	return &info, nil
}

// ServerTime implements driven.DatabaseInspector.
func (t *Timeline) ServerTime(_ context.Context) (time.Time, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now, nil
}

// Reads returns the read timestamps in the order they were queried.
func (t *Timeline) Reads() []time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	reads := make([]time.Time, len(t.reads))
	copy(reads, t.reads)
	return reads
}
