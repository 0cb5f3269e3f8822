package view

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Sort returns a stably sorted copy of emails.
//
// Sender compares with locale-aware collation, read puts unread first in
// ascending order and timestamp compares chronologically. Any other key falls
// back to newest-first by timestamp and ignores the direction.
func Sort(emails []domain.Email, cfg domain.SortConfig) []domain.Email {
	out := slices.Clone(emails)
	dir := 1
	if cfg.Direction == domain.Desc {
		dir = -1
	}

	var cmp func(a, b *domain.Email) int
	switch cfg.Key {
	case domain.SortSender:
		col := collate.New(language.English)
		cmp = func(a, b *domain.Email) int {
			return col.CompareString(a.Sender, b.Sender) * dir
		}
	case domain.SortRead:
		cmp = func(a, b *domain.Email) int {
			return compareBool(a.Read, b.Read) * dir
		}
	case domain.SortTimestamp:
		cmp = func(a, b *domain.Email) int {
			return a.Timestamp.Compare(b.Timestamp) * dir
		}
	default:
		cmp = func(a, b *domain.Email) int {
			return b.Timestamp.Compare(a.Timestamp)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.Email) int {
		return cmp(&a, &b)
	})
	return out
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
