package app

import (
	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
)

// Draft is an outgoing message.
type Draft struct {
	To      string
	Subject string
	Body    string
	// InReplyTo is the id of the email being answered, if any.
	InReplyTo string
}

// SendEmail files the draft in Sent, marks the answered email read, and
// switches the view to Sent with the new email selected.
func (s *Service) SendEmail(d Draft) domain.Email {
	sender := domain.DefaultSender
	if len(s.accounts) > 0 && s.accounts[0].EmailAddress != "" {
		sender = s.accounts[0].EmailAddress
	}
	sent := domain.Email{
		ID:        s.newID(),
		Sender:    sender,
		Recipient: d.To,
		Subject:   d.Subject,
		Body:      d.Body,
		Timestamp: s.now(),
		Read:      true,
		Folder:    domain.FolderSent,
	}

	if d.InReplyTo != "" {
		s.mailbox.Dispatch(mailbox.SetReadStatus{IDs: []string{d.InReplyTo}, Read: true})
	}
	s.mailbox.Dispatch(mailbox.AddEmail{Email: sent})

	s.mu.Lock()
	s.query.Active = domain.FolderFilter(domain.FolderSent)
	s.selected = []string{sent.ID}
	s.mu.Unlock()
	return sent
}
