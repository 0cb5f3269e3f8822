package store

import (
	"context"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Store defines the persistence interface for the application.
type Store interface {
	// Emails
	ReplaceEmails(ctx context.Context, emails []domain.Email) error
	ListEmails(ctx context.Context) ([]domain.Email, error)

	// Training log
	AppendTraining(ctx context.Context, entries ...domain.TrainingEntry) error
	ListTraining(ctx context.Context) ([]domain.TrainingEntry, error)

	// Contacts
	UpsertContact(ctx context.Context, contact *domain.Contact) error
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error

	// Session state
	GetSession(ctx context.Context) (*Session, error)
	SetSession(ctx context.Context, session *Session) error

	// Lifecycle
	Close() error
}

// Session is the view state carried between CLI invocations.
type Session struct {
	Initialized bool
	Active      domain.ActiveFilter
	Selected    []string

	// Sort, Conditions and Logic keep the list the user last saw, so that
	// selection continuity runs against that list on the next command. A
	// zero Sort means the configured default.
	Sort       domain.SortConfig
	Conditions []domain.FilterCondition
	Logic      domain.FilterLogic
}
