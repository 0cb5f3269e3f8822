package app

import (
	"fmt"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
	"github.com/lu-zhengda/triagemail/internal/selection"
)

// SetReadStatus marks the emails read or unread. Selection is untouched.
func (s *Service) SetReadStatus(ids []string, read bool) {
	s.mailbox.Dispatch(mailbox.SetReadStatus{IDs: ids, Read: read})
}

// MoveToFolder moves the emails to folder, moving focus off them first.
func (s *Service) MoveToFolder(ids []string, folder domain.Folder) error {
	if !folder.Valid() {
		return fmt.Errorf("unknown folder %q", folder)
	}
	s.advanceSelection(ids)
	s.mailbox.Dispatch(mailbox.MoveToFolder{IDs: ids, Folder: folder})
	return nil
}

// Delete moves the emails to Trash.
func (s *Service) Delete(ids []string) error {
	return s.MoveToFolder(ids, domain.FolderTrash)
}

// Archive marks the emails read and moves them to Archive. Focus moves
// against the list as it was before the read change.
func (s *Service) Archive(ids []string) {
	s.advanceSelection(ids)
	s.mailbox.Dispatch(mailbox.SetReadStatus{IDs: ids, Read: true})
	s.mailbox.Dispatch(mailbox.MoveToFolder{IDs: ids, Folder: domain.FolderArchive})
}

// Junk labels the emails Junk and moves them to Spam.
func (s *Service) Junk(ids []string) {
	s.advanceSelection(ids)
	s.mailbox.Dispatch(mailbox.AddJunkLabelAndMove{IDs: ids})
}

// EmptyTrash permanently removes every email in Trash and clears the
// selection.
func (s *Service) EmptyTrash() {
	s.mailbox.Dispatch(mailbox.EmptyTrash{})
	s.Select()
}

// advanceSelection computes the selection that should survive acting on ids
// against the list as displayed before the action.
func (s *Service) advanceSelection(ids []string) {
	displayed := s.Displayed()
	s.mu.Lock()
	s.selected = selection.Resolve(displayed, ids, s.selected)
	s.mu.Unlock()
}
