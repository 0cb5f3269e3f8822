package mailbox

import (
	"errors"
	"sync"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// ErrNotFound is returned by lookups for an id that is not in the store.
var ErrNotFound = errors.New("email not found")

// Store is the authoritative mailbox. All mutations go through Dispatch or
// Transact, which run Reduce under a lock; readers get copies.
type Store struct {
	mu     sync.RWMutex
	emails []domain.Email
}

// NewStore returns a store holding emails.
func NewStore(emails []domain.Email) *Store {
	return &Store{emails: emails}
}

// Dispatch applies cmd to the current state.
func (s *Store) Dispatch(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = Reduce(s.emails, cmd)
}

// Transact looks up id and, while holding the store lock, lets fn decide on
// a command to apply to the email as it is right now. It returns false if
// the email does not exist or fn declined.
func (s *Store) Transact(id string, fn func(current domain.Email) (Command, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	cmd, ok := fn(s.emails[idx].Clone())
	if !ok {
		return false
	}
	s.emails = Reduce(s.emails, cmd)
	return true
}

// Emails returns a snapshot of the mailbox.
func (s *Store) Emails() []domain.Email {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Email, len(s.emails))
	for i := range s.emails {
		out[i] = s.emails[i].Clone()
	}
	return out
}

// Email returns a copy of the email with the given id.
func (s *Store) Email(id string) (domain.Email, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Email{}, false
	}
	return s.emails[idx].Clone(), true
}

// Len returns the number of emails held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.emails)
}

func (s *Store) indexOf(id string) int {
	for i := range s.emails {
		if s.emails[i].ID == id {
			return i
		}
	}
	return -1
}
