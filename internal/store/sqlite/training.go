package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

type trainingRow struct {
	ID        string `db:"id"`
	EmailBody string `db:"email_body"`
	Label     string `db:"label"`
	Feedback  string `db:"feedback"`
	Timestamp string `db:"timestamp"`
}

// AppendTraining adds entries to the end of the training log. Entries whose
// id is already stored are ignored.
func (s *DB) AppendTraining(ctx context.Context, entries ...domain.TrainingEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		row := trainingRow{
			ID:        e.ID,
			EmailBody: e.EmailBody,
			Label:     e.Label,
			Feedback:  string(e.Feedback),
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO training (id, email_body, label, feedback, timestamp)
			VALUES (:id, :email_body, :label, :feedback, :timestamp)
			ON CONFLICT(id) DO NOTHING`, row); err != nil {
			return fmt.Errorf("failed to append training entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit training entries: %w", err)
	}
	return nil
}

// ListTraining returns every training entry in append order.
func (s *DB) ListTraining(ctx context.Context) ([]domain.TrainingEntry, error) {
	var rows []trainingRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, email_body, label, feedback, timestamp
		FROM training ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("failed to list training entries: %w", err)
	}

	entries := make([]domain.TrainingEntry, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse training timestamp: %w", err)
		}
		entries = append(entries, domain.TrainingEntry{
			ID:        r.ID,
			EmailBody: r.EmailBody,
			Label:     r.Label,
			Feedback:  domain.Feedback(r.Feedback),
			Timestamp: ts,
		})
	}
	return entries, nil
}
