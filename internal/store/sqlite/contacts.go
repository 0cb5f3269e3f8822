package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

type contactRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Emails string `db:"emails"`
}

// UpsertContact inserts or updates a contact.
func (s *DB) UpsertContact(ctx context.Context, contact *domain.Contact) error {
	emails, err := json.Marshal(contact.Emails)
	if err != nil {
		return fmt.Errorf("failed to marshal contact emails: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, emails)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name   = excluded.name,
			emails = excluded.emails`,
		contact.ID, contact.Name, string(emails),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

// ListContacts returns all contacts ordered by name.
func (s *DB) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	var rows []contactRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, emails FROM contacts ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(rows))
	for _, r := range rows {
		c := domain.Contact{ID: r.ID, Name: r.Name}
		if err := json.Unmarshal([]byte(r.Emails), &c.Emails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal emails of contact %s: %w", r.ID, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// DeleteContact removes a contact by ID.
func (s *DB) DeleteContact(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	return nil
}
