// Package view derives what the user sees from the canonical mailbox: the
// filtered and sorted list and the sidebar counters.
package view

import (
	"sort"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/filter"
)

// Query describes one rendering of the mailbox.
type Query struct {
	Active     domain.ActiveFilter
	Conditions []domain.FilterCondition
	Logic      domain.FilterLogic
	Sort       domain.SortConfig
}

// DefaultQuery shows the Inbox newest first.
func DefaultQuery() Query {
	return Query{
		Active: domain.FolderFilter(domain.FolderInbox),
		Logic:  domain.LogicAnd,
		Sort:   domain.DefaultSort,
	}
}

// Build computes sort(filter(select(emails, active), conditions, logic), sort).
func Build(emails []domain.Email, q Query) []domain.Email {
	base := filter.Select(emails, q.Active)
	return Sort(filter.Apply(base, q.Conditions, q.Logic), q.Sort)
}

// UnreadByFolder counts unread emails per folder name.
func UnreadByFolder(emails []domain.Email) map[domain.Folder]int {
	counts := make(map[domain.Folder]int)
	for i := range emails {
		if !emails[i].Read {
			counts[emails[i].Folder]++
		}
	}
	return counts
}

// UnreadByLabel counts unread emails per label name. An email carrying the
// same name twice is counted once.
func UnreadByLabel(emails []domain.Email) map[string]int {
	counts := make(map[string]int)
	for i := range emails {
		if emails[i].Read {
			continue
		}
		for _, name := range distinctNames(emails[i].Labels) {
			counts[name]++
		}
	}
	return counts
}

// LabelCount is one entry of the sidebar label list.
type LabelCount struct {
	Name  string
	Count int
}

// Labels lists every distinct label name with the number of emails carrying
// it, ordered by name.
func Labels(emails []domain.Email) []LabelCount {
	counts := make(map[string]int)
	for i := range emails {
		for _, name := range distinctNames(emails[i].Labels) {
			counts[name]++
		}
	}
	out := make([]LabelCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, LabelCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func distinctNames(labels []domain.Label) []string {
	seen := make(map[string]struct{}, len(labels))
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l.Name]; ok {
			continue
		}
		seen[l.Name] = struct{}{}
		names = append(names, l.Name)
	}
	return names
}
