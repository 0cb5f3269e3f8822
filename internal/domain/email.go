package domain

import (
	"strings"
	"time"
)

// Folder is the single mailbox location of an email.
type Folder string

const (
	FolderInbox   Folder = "Inbox"
	FolderSent    Folder = "Sent"
	FolderSpam    Folder = "Spam"
	FolderArchive Folder = "Archive"
	FolderTrash   Folder = "Trash"
)

// Folders lists every folder in sidebar order.
var Folders = []Folder{FolderInbox, FolderSent, FolderSpam, FolderArchive, FolderTrash}

// Valid reports whether f is one of the known folders.
func (f Folder) Valid() bool {
	for _, known := range Folders {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFolder resolves a folder name case-insensitively.
func ParseFolder(s string) (Folder, bool) {
	for _, known := range Folders {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

type Email struct {
	ID              string
	Sender          string
	Recipient       string
	Subject         string
	Body            string
	Timestamp       time.Time
	Read            bool
	Folder          Folder
	Labels          []Label
	AnalysisSkipped bool
}

// Clone returns a copy of e that does not share its label slice.
func (e Email) Clone() Email {
	if e.Labels != nil {
		labels := make([]Label, len(e.Labels))
		copy(labels, e.Labels)
		e.Labels = labels
	}
	return e
}

// HasLabel reports whether the email carries a label with exactly this name.
func (e *Email) HasLabel(name string) bool {
	for _, l := range e.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// HasLabelFold is HasLabel with case-insensitive name comparison.
func (e *Email) HasLabelFold(name string) bool {
	for _, l := range e.Labels {
		if strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return false
}

// HasSource reports whether any label on the email came from src.
func (e *Email) HasSource(src LabelSource) bool {
	for _, l := range e.Labels {
		if l.Source == src {
			return true
		}
	}
	return false
}

// LabelByID returns the label with the given id.
func (e *Email) LabelByID(id string) (Label, bool) {
	for _, l := range e.Labels {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}
