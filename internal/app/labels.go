package app

import (
	"fmt"
	"strings"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
)

// AddLabel attaches a user label named name to the email.
func (s *Service) AddLabel(emailID, name string) (domain.Label, error) {
	id := domain.LabelID(emailID, strings.TrimSpace(name), domain.SourceUser)
	return s.UpdateLabel(emailID, id, name)
}

// UpdateLabel renames the label with labelID, or appends it when the email
// has no such label. Either way the label becomes a user label with
// confidence 1 and a positive training entry is recorded.
func (s *Service) UpdateLabel(emailID, labelID, newName string) (domain.Label, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return domain.Label{}, ErrInvalidLabel
	}

	var (
		result domain.Label
		body   string
		err    error
	)
	applied := s.mailbox.Transact(emailID, func(current domain.Email) (mailbox.Command, bool) {
		for _, l := range current.Labels {
			if l.ID != labelID && strings.EqualFold(l.Name, name) {
				err = ErrDuplicateLabel
				return nil, false
			}
		}

		result = domain.Label{ID: labelID, Name: name, Confidence: 1, Source: domain.SourceUser}
		labels := append([]domain.Label(nil), current.Labels...)
		replaced := false
		for i := range labels {
			if labels[i].ID == labelID {
				labels[i] = result
				replaced = true
				break
			}
		}
		if !replaced {
			labels = append(labels, result)
		}
		body = current.Body
		return mailbox.UpdateLabels{EmailID: emailID, Labels: labels}, true
	})
	if err != nil {
		return domain.Label{}, err
	}
	if !applied {
		return domain.Label{}, fmt.Errorf("failed to update label on %s: %w", emailID, mailbox.ErrNotFound)
	}

	s.training.Record(body, name, domain.FeedbackPositive)
	return result, nil
}

// ConfirmAILabel turns the label into a user label with confidence 1 and
// records a positive training entry.
func (s *Service) ConfirmAILabel(emailID, labelID string) (domain.Label, error) {
	var (
		result domain.Label
		body   string
		found  bool
	)
	applied := s.mailbox.Transact(emailID, func(current domain.Email) (mailbox.Command, bool) {
		labels := append([]domain.Label(nil), current.Labels...)
		for i := range labels {
			if labels[i].ID == labelID {
				labels[i].Source = domain.SourceUser
				labels[i].Confidence = 1
				result = labels[i]
				found = true
			}
		}
		if !found {
			return nil, false
		}
		body = current.Body
		return mailbox.UpdateLabels{EmailID: emailID, Labels: labels}, true
	})
	if !applied {
		return domain.Label{}, s.missing(emailID, labelID)
	}

	s.training.Record(body, result.Name, domain.FeedbackPositive)
	return result, nil
}

// RemoveLabel deletes the label. Removing a user or AI label records a
// negative training entry; rule labels are not feedback.
func (s *Service) RemoveLabel(emailID, labelID string) (domain.Label, error) {
	removed, body, err := s.dropLabel(emailID, labelID)
	if err != nil {
		return domain.Label{}, err
	}
	if removed.Source == domain.SourceUser || removed.Source == domain.SourceAI {
		s.training.Record(body, removed.Name, domain.FeedbackNegative)
	}
	return removed, nil
}

// RejectAILabel deletes label from the email by id and records a negative
// training entry for it.
func (s *Service) RejectAILabel(emailID string, label domain.Label) error {
	email, ok := s.mailbox.Email(emailID)
	if !ok {
		return fmt.Errorf("failed to reject label on %s: %w", emailID, mailbox.ErrNotFound)
	}
	s.mailbox.Transact(emailID, func(current domain.Email) (mailbox.Command, bool) {
		return mailbox.UpdateLabels{EmailID: emailID, Labels: without(current.Labels, label.ID)}, true
	})
	s.training.Record(email.Body, label.Name, domain.FeedbackNegative)
	return nil
}

func (s *Service) dropLabel(emailID, labelID string) (domain.Label, string, error) {
	var (
		removed domain.Label
		body    string
		found   bool
	)
	applied := s.mailbox.Transact(emailID, func(current domain.Email) (mailbox.Command, bool) {
		removed, found = current.LabelByID(labelID)
		if !found {
			return nil, false
		}
		body = current.Body
		return mailbox.UpdateLabels{EmailID: emailID, Labels: without(current.Labels, labelID)}, true
	})
	if !applied {
		return domain.Label{}, "", s.missing(emailID, labelID)
	}
	return removed, body, nil
}

func (s *Service) missing(emailID, labelID string) error {
	if _, ok := s.mailbox.Email(emailID); !ok {
		return fmt.Errorf("email %s: %w", emailID, mailbox.ErrNotFound)
	}
	return fmt.Errorf("label %s on email %s: %w", labelID, emailID, ErrLabelNotFound)
}

func without(labels []domain.Label, id string) []domain.Label {
	out := make([]domain.Label, 0, len(labels))
	for _, l := range labels {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}
