package app

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Contacts returns the address book.
func (s *Service) Contacts() []domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Contact, len(s.contacts))
	for i, c := range s.contacts {
		c.Emails = append([]string(nil), c.Emails...)
		out[i] = c
	}
	return out
}

// AddContact stores c, assigning an id when it has none.
func (s *Service) AddContact(c domain.Contact) domain.Contact {
	if c.ID == "" {
		c.ID = "contact-" + uuid.NewString()
	}
	c.Emails = append([]string(nil), c.Emails...)
	s.mu.Lock()
	s.contacts = append(s.contacts, c)
	s.mu.Unlock()
	return c
}

// RemoveContact deletes the contact with id. It reports whether one existed.
func (s *Service) RemoveContact(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return true
		}
	}
	return false
}

// Sender is the display form of an email's sender.
type Sender struct {
	Name      string
	Email     string
	IsContact bool
}

var namedAddr = regexp.MustCompile(`(.*)<(.*)>`)

// ResolveSender matches the email's sender against the address book, falling
// back to parsing a "Name <addr>" sender.
func (s *Service) ResolveSender(e domain.Email) Sender {
	sender := strings.ToLower(e.Sender)
	for _, c := range s.Contacts() {
		for _, addr := range c.Emails {
			a := strings.ToLower(addr)
			if a == sender || strings.Contains(sender, "<"+a+">") {
				return Sender{Name: c.Name, Email: addr, IsContact: true}
			}
		}
	}
	if m := namedAddr.FindStringSubmatch(e.Sender); m != nil && strings.TrimSpace(m[2]) != "" {
		return Sender{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
	}
	return Sender{Name: e.Sender, Email: e.Sender}
}

// AddSenderToContacts creates a contact for the email's sender unless one
// already matches. The local part of the address is used when the sender
// has no display name.
func (s *Service) AddSenderToContacts(e domain.Email) (domain.Contact, bool) {
	info := s.ResolveSender(e)
	if info.IsContact {
		return domain.Contact{}, false
	}
	name := info.Name
	if name == info.Email || name == "" {
		name, _, _ = strings.Cut(info.Email, "@")
	}
	return s.AddContact(domain.Contact{Name: name, Emails: []string{info.Email}}), true
}
