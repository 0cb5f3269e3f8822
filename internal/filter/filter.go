// Package filter narrows a mailbox to the emails a user asked to see.
package filter

import (
	"strconv"
	"strings"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Select returns the emails in the active folder, or carrying the active
// label (exact name).
func Select(emails []domain.Email, active domain.ActiveFilter) []domain.Email {
	out := make([]domain.Email, 0, len(emails))
	for i := range emails {
		if InBucket(&emails[i], active) {
			out = append(out, emails[i])
		}
	}
	return out
}

// InBucket reports whether email belongs to the active filter's bucket.
func InBucket(email *domain.Email, active domain.ActiveFilter) bool {
	if active.IsLabel() {
		return email.HasLabel(active.Label)
	}
	return email.Folder == active.Folder
}

// Apply keeps the emails matching conds under logic. An empty condition set
// keeps everything.
func Apply(emails []domain.Email, conds []domain.FilterCondition, logic domain.FilterLogic) []domain.Email {
	if len(conds) == 0 {
		return emails
	}
	out := make([]domain.Email, 0, len(emails))
	for i := range emails {
		if MatchesAll(&emails[i], conds, logic) {
			out = append(out, emails[i])
		}
	}
	return out
}

// MatchesAll combines conds with AND (every) or OR (some).
func MatchesAll(email *domain.Email, conds []domain.FilterCondition, logic domain.FilterLogic) bool {
	if logic == domain.LogicOr {
		for _, c := range conds {
			if Matches(email, c) {
				return true
			}
		}
		return false
	}
	for _, c := range conds {
		if !Matches(email, c) {
			return false
		}
	}
	return true
}

// Matches evaluates a single condition. Unsupported field/operator pairs and
// unparsable confidence values never match.
func Matches(email *domain.Email, cond domain.FilterCondition) bool {
	val := strings.ToLower(cond.Value)

	switch cond.Field {
	case domain.FilterSender, domain.FilterSubject:
		text := email.Sender
		if cond.Field == domain.FilterSubject {
			text = email.Subject
		}
		text = strings.ToLower(text)
		switch cond.Operator {
		case domain.OpContains:
			return strings.Contains(text, val)
		case domain.OpNotContains:
			return !strings.Contains(text, val)
		case domain.OpEquals:
			return text == val
		case domain.OpNotEquals:
			return text != val
		}
		return false

	case domain.FilterLabelName:
		if cond.Operator != domain.OpContains {
			return false
		}
		for _, l := range email.Labels {
			if strings.Contains(strings.ToLower(l.Name), val) {
				return true
			}
		}
		return false

	case domain.FilterLabelConfidence:
		threshold, ok := ParsePercent(cond.Value)
		if !ok {
			return false
		}
		for _, l := range email.Labels {
			switch cond.Operator {
			case domain.OpGreater:
				if l.Confidence > threshold {
					return true
				}
			case domain.OpLess:
				if l.Confidence < threshold {
					return true
				}
			}
		}
		return false
	}
	return false
}

// ParsePercent reads the longest leading decimal number such as "80",
// "72.5%" or "1e2" and returns it as a fraction of one.
func ParsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	intDigits := digits(s, end)
	end += intDigits
	fracDigits := 0
	if end < len(s) && s[end] == '.' {
		fracDigits = digits(s, end+1)
		if intDigits > 0 || fracDigits > 0 {
			end += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, false
	}
	// An exponent counts only when at least one digit follows it.
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '-' || s[exp] == '+') {
			exp++
		}
		if n := digits(s, exp); n > 0 {
			end = exp + n
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f / 100, true
}

// digits counts the ASCII digits in s starting at i.
func digits(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '9' {
		n++
	}
	return n
}

// Valid reports whether the operator is supported for the condition's field.
func Valid(cond domain.FilterCondition) bool {
	switch cond.Field {
	case domain.FilterSender, domain.FilterSubject:
		switch cond.Operator {
		case domain.OpContains, domain.OpNotContains, domain.OpEquals, domain.OpNotEquals:
			return true
		}
	case domain.FilterLabelName:
		return cond.Operator == domain.OpContains
	case domain.FilterLabelConfidence:
		return cond.Operator == domain.OpGreater || cond.Operator == domain.OpLess
	}
	return false
}
