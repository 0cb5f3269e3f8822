package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
	"github.com/lu-zhengda/triagemail/internal/rules"
)

// Initialize fetches the initial mailbox from the source, applies the rules
// and replaces the store contents. The Inbox becomes the active view with no
// filter conditions, and the first Inbox email is selected.
func (s *Service) Initialize(ctx context.Context) error {
	if s.source == nil {
		return errors.New("no email source configured")
	}
	fetched, err := s.source.FetchInitialEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial emails: %w", err)
	}
	log.Printf("[ingest] fetched %d emails", len(fetched))

	labeled := rules.Apply(fetched, s.rules)
	s.mailbox.Dispatch(mailbox.SetAll{Emails: labeled})

	var selected []string
	for _, e := range labeled {
		if e.Folder == domain.FolderInbox {
			selected = []string{e.ID}
			break
		}
	}

	s.mu.Lock()
	s.query.Active = domain.FolderFilter(domain.FolderInbox)
	s.query.Conditions = nil
	s.query.Logic = domain.LogicAnd
	s.selected = selected
	s.mu.Unlock()

	log.Printf("[ingest] applied %d rules to %d emails", len(s.rules), len(labeled))
	return nil
}
