package mock

import (
	"context"
	"sort"
	"strings"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// keywordLabels maps body keywords to the label they suggest.
var keywordLabels = []struct {
	label    string
	keywords []string
}{
	{"Invoice", []string{"invoice", "amount", "payment", "due"}},
	{"Finance", []string{"invoice", "payment", "billing", "$"}},
	{"Promotion", []string{"sale", "% off", "shop now", "discount"}},
	{"Marketing", []string{"click here", "exclusive", "don't miss"}},
	{"Newsletter", []string{"this week", "roundup", "subscribe"}},
	{"Work", []string{"meeting", "report", "team", "project"}},
	{"Support Request", []string{"support", "question", "reaching out"}},
	{"Spam", []string{"winner", "lottery", "claim your prize", "wire transfer"}},
}

// Suggester scores labels by the share of their keywords found in the body.
// It needs no network access and is deterministic.
type Suggester struct {
	MaxLabels int
}

func (s Suggester) SuggestLabels(ctx context.Context, body string) ([]domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := strings.ToLower(body)

	var out []domain.Suggestion
	for _, kl := range keywordLabels {
		hits := 0
		for _, kw := range kl.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		out = append(out, domain.Suggestion{
			Name:       kl.label,
			Confidence: 0.5 + 0.5*float64(hits)/float64(len(kl.keywords)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if s.MaxLabels > 0 && len(out) > s.MaxLabels {
		out = out[:s.MaxLabels]
	}
	return out, nil
}
