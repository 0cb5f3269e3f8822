// Package rules applies deterministic condition/action rules to incoming mail.
package rules

import (
	"strings"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Apply runs every rule, in order, against every email and returns the
// resulting sequence. Emails no rule changed are returned as-is; changed
// emails are copies, so the input slice is never modified.
func Apply(emails []domain.Email, rules []domain.Rule) []domain.Email {
	if len(rules) == 0 {
		return emails
	}

	out := make([]domain.Email, len(emails))
	for i := range emails {
		out[i] = applyOne(emails[i], rules)
	}
	return out
}

func applyOne(email domain.Email, rules []domain.Rule) domain.Email {
	modified := email
	changed := false

	for _, rule := range rules {
		if !Matches(&modified, rule.Condition) {
			continue
		}
		switch action := rule.Action.(type) {
		case domain.AddLabel:
			// Case-sensitive, unlike the reconciler.
			if modified.HasLabel(action.Name) {
				continue
			}
			if !changed {
				modified = modified.Clone()
			}
			modified.Labels = append(modified.Labels, domain.Label{
				ID:         LabelID(rule.ID, modified.ID, action.Name),
				Name:       action.Name,
				Confidence: 1.0,
				Source:     domain.SourceRule,
			})
			changed = true
		case domain.MoveToFolder:
			if modified.Folder == action.Folder {
				continue
			}
			if !changed {
				modified = modified.Clone()
			}
			modified.Folder = action.Folder
			changed = true
		}
	}

	if !changed {
		return email
	}
	return modified
}

// Matches evaluates a rule condition case-insensitively.
func Matches(email *domain.Email, cond domain.RuleCondition) bool {
	field := strings.ToLower(email.Field(cond.Field))
	value := strings.ToLower(cond.Value)

	switch cond.Operator {
	case domain.RuleContains:
		return strings.Contains(field, value)
	case domain.RuleEquals:
		return field == value
	}
	return false
}

// LabelID is the id given to a label added by a rule.
func LabelID(ruleID, emailID, name string) string {
	return "rule-" + ruleID + "-" + emailID + "-" + name
}
