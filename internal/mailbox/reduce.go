// Package mailbox holds the canonical email collection and the pure
// transition function that every mutation goes through.
package mailbox

import (
	"strings"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Reduce applies cmd to state and returns the new state. It never modifies
// state in place; emails a command does not touch are carried over as-is.
// Unknown ids are ignored and unknown commands return state unchanged.
func Reduce(state []domain.Email, cmd Command) []domain.Email {
	switch c := cmd.(type) {
	case SetAll:
		return c.Emails

	case SetReadStatus:
		return mapIDs(state, c.IDs, func(e domain.Email) domain.Email {
			e.Read = c.Read
			return e
		})

	case MoveToFolder:
		if !c.Folder.Valid() {
			return state
		}
		return mapIDs(state, c.IDs, func(e domain.Email) domain.Email {
			e.Folder = c.Folder
			return e
		})

	case AddJunkLabelAndMove:
		return mapIDs(state, c.IDs, func(e domain.Email) domain.Email {
			if !hasJunk(e.Labels) {
				e = e.Clone()
				e.Labels = append(e.Labels, domain.Label{
					ID:         domain.LabelID(e.ID, domain.JunkLabel, domain.SourceUser),
					Name:       domain.JunkLabel,
					Confidence: 1.0,
					Source:     domain.SourceUser,
				})
			}
			e.Folder = domain.FolderSpam
			e.Read = true
			return e
		})

	case UpdateLabels:
		return mapIDs(state, []string{c.EmailID}, func(e domain.Email) domain.Email {
			e.Labels = c.Labels
			return e
		})

	case AddEmail:
		out := make([]domain.Email, 0, len(state)+1)
		out = append(out, c.Email)
		return append(out, state...)

	case EmptyTrash:
		out := make([]domain.Email, 0, len(state))
		for _, e := range state {
			if e.Folder != domain.FolderTrash {
				out = append(out, e)
			}
		}
		return out

	case SetAnalysisSkipped:
		return mapIDs(state, c.IDs, func(e domain.Email) domain.Email {
			e.AnalysisSkipped = c.Skipped
			return e
		})
	}
	return state
}

func mapIDs(state []domain.Email, ids []string, fn func(domain.Email) domain.Email) []domain.Email {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]domain.Email, len(state))
	for i, e := range state {
		if _, ok := want[e.ID]; ok {
			out[i] = fn(e)
		} else {
			out[i] = e
		}
	}
	return out
}

func hasJunk(labels []domain.Label) bool {
	for _, l := range labels {
		if strings.EqualFold(l.Name, domain.JunkLabel) {
			return true
		}
	}
	return false
}
