package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

type emailRow struct {
	ID              string `db:"id"`
	Sender          string `db:"sender"`
	Recipient       string `db:"recipient"`
	Subject         string `db:"subject"`
	Body            string `db:"body"`
	Timestamp       string `db:"timestamp"`
	IsRead          bool   `db:"is_read"`
	Folder          string `db:"folder"`
	AnalysisSkipped bool   `db:"analysis_skipped"`
}

type labelRow struct {
	EmailID    string  `db:"email_id"`
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Confidence float64 `db:"confidence"`
	Source     string  `db:"source"`
}

// ReplaceEmails swaps the stored mailbox for emails, preserving their order.
func (s *DB) ReplaceEmails(ctx context.Context, emails []domain.Email) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM emails`); err != nil {
		return fmt.Errorf("failed to clear emails: %w", err)
	}

	for i, e := range emails {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO emails (id, position, sender, recipient, subject, body,
				timestamp, is_read, folder, analysis_skipped)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Sender, e.Recipient, e.Subject, e.Body,
			e.Timestamp.UTC().Format(time.RFC3339Nano), e.Read, string(e.Folder), e.AnalysisSkipped,
		)
		if err != nil {
			return fmt.Errorf("failed to insert email %s: %w", e.ID, err)
		}
		for j, l := range e.Labels {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO email_labels (email_id, id, position, name, confidence, source)
				VALUES (?, ?, ?, ?, ?, ?)`,
				e.ID, l.ID, j, l.Name, l.Confidence, string(l.Source),
			); err != nil {
				return fmt.Errorf("failed to insert label %s on %s: %w", l.ID, e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit emails: %w", err)
	}
	return nil
}

// ListEmails returns the stored mailbox in insertion order, with labels.
func (s *DB) ListEmails(ctx context.Context) ([]domain.Email, error) {
	var rows []emailRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, sender, recipient, subject, body, timestamp, is_read, folder, analysis_skipped
		FROM emails ORDER BY position`); err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}

	var labels []labelRow
	if err := s.db.SelectContext(ctx, &labels, `
		SELECT email_id, id, name, confidence, source
		FROM email_labels ORDER BY email_id, position`); err != nil {
		return nil, fmt.Errorf("failed to list email labels: %w", err)
	}
	byEmail := make(map[string][]domain.Label, len(rows))
	for _, l := range labels {
		byEmail[l.EmailID] = append(byEmail[l.EmailID], domain.Label{
			ID:         l.ID,
			Name:       l.Name,
			Confidence: l.Confidence,
			Source:     domain.LabelSource(l.Source),
		})
	}

	emails := make([]domain.Email, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of %s: %w", r.ID, err)
		}
		emails = append(emails, domain.Email{
			ID:              r.ID,
			Sender:          r.Sender,
			Recipient:       r.Recipient,
			Subject:         r.Subject,
			Body:            r.Body,
			Timestamp:       ts,
			Read:            r.IsRead,
			Folder:          domain.Folder(r.Folder),
			Labels:          byEmail[r.ID],
			AnalysisSkipped: r.AnalysisSkipped,
		})
	}
	return emails, nil
}
