// Package training records human label decisions for later model retraining.
package training

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Log is an append-only, goroutine-safe ledger of training entries.
type Log struct {
	mu      sync.Mutex
	entries []domain.TrainingEntry
	now     func() time.Time
	newID   func() string
}

// NewLog returns a log seeded with previously recorded entries.
func NewLog(existing []domain.TrainingEntry) *Log {
	return &Log{
		entries: append([]domain.TrainingEntry(nil), existing...),
		now:     time.Now,
		newID:   func() string { return "td-" + uuid.NewString() },
	}
}

// SetClock overrides the time source.
func (l *Log) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// Record appends an entry for a decision about label on an email with body.
func (l *Log) Record(body, label string, feedback domain.Feedback) domain.TrainingEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := domain.TrainingEntry{
		ID:        l.newID(),
		EmailBody: body,
		Label:     label,
		Feedback:  feedback,
		Timestamp: l.now().UTC(),
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []domain.TrainingEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.TrainingEntry(nil), l.entries...)
}

// Since returns the entries appended after the first n. A negative n
// returns every entry.
func (l *Log) Since(n int) []domain.TrainingEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	n = max(n, 0)
	if n >= len(l.entries) {
		return nil
	}
	return append([]domain.TrainingEntry(nil), l.entries[n:]...)
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
