// Package selection keeps the user's focus stable across bulk actions.
package selection

import "github.com/lu-zhengda/triagemail/internal/domain"

// Resolve returns the selection that should follow acting on the acted ids.
//
// If every selected id is being acted upon, focus moves to the email that
// takes the first selected email's slot in displayed once the acted ids are
// gone, falling back to the new last email. An empty result means nothing is
// left to select. Otherwise the acted ids are simply dropped from prior.
func Resolve(displayed []domain.Email, acted, prior []string) []string {
	actedSet := make(map[string]struct{}, len(acted))
	for _, id := range acted {
		actedSet[id] = struct{}{}
	}

	if len(prior) == 0 || !subset(prior, actedSet) {
		out := make([]string, 0, len(prior))
		for _, id := range prior {
			if _, ok := actedSet[id]; !ok {
				out = append(out, id)
			}
		}
		return out
	}

	start := -1
	for i := range displayed {
		if displayed[i].ID == prior[0] {
			start = i
			break
		}
	}
	if start < 0 {
		return []string{}
	}

	next, ok := Next(displayed, acted, start)
	if !ok {
		return []string{}
	}
	return []string{next}
}

// Next picks the id at index start among the displayed emails that survive
// removal of acted, clamped to the last survivor. It reports false when no
// email survives.
func Next(displayed []domain.Email, acted []string, start int) (string, bool) {
	actedSet := make(map[string]struct{}, len(acted))
	for _, id := range acted {
		actedSet[id] = struct{}{}
	}
	remaining := make([]string, 0, len(displayed))
	for i := range displayed {
		if _, ok := actedSet[displayed[i].ID]; !ok {
			remaining = append(remaining, displayed[i].ID)
		}
	}
	if len(remaining) == 0 {
		return "", false
	}
	return remaining[min(start, len(remaining)-1)], true
}

func subset(ids []string, set map[string]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
