package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

func sample() []domain.Email {
	return []domain.Email{
		{ID: "1", Sender: "newsletter@techweekly.com", Subject: "Your Weekly Tech Roundup!", Folder: domain.FolderInbox},
		{ID: "2", Sender: "billing@cloudservice.com", Subject: "Your Invoice #CS12345 is due", Folder: domain.FolderInbox,
			Labels: []domain.Label{{ID: "a", Name: "Finance", Confidence: 0.98, Source: domain.SourceAI}}},
		{ID: "3", Sender: "marketing@e-commercestore.com", Subject: "48-Hour Flash Sale!", Folder: domain.FolderInbox,
			Labels: []domain.Label{{ID: "b", Name: "Promotion", Confidence: 0.6, Source: domain.SourceAI}}},
		{ID: "4", Sender: "user@example.com", Subject: "Sending over the assets", Folder: domain.FolderSent},
		{ID: "5", Sender: "Jane Doe", Subject: "Project Alpha", Folder: domain.FolderInbox,
			Labels: []domain.Label{{ID: "c", Name: "Important", Confidence: 1, Source: domain.SourceUser}}},
	}
}

func ids(emails []domain.Email) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		out = append(out, e.ID)
	}
	return out
}

func TestSelect(t *testing.T) {
	emails := sample()
	assert.Equal(t, []string{"1", "2", "3", "5"}, ids(Select(emails, domain.FolderFilter(domain.FolderInbox))))
	assert.Equal(t, []string{"4"}, ids(Select(emails, domain.FolderFilter(domain.FolderSent))))
	assert.Equal(t, []string{"2"}, ids(Select(emails, domain.LabelFilter("Finance"))))
	assert.Empty(t, Select(emails, domain.LabelFilter("finance")), "label bucket uses the exact name")
}

func TestMatches(t *testing.T) {
	email := sample()[1]
	tests := []struct {
		name string
		cond domain.FilterCondition
		want bool
	}{
		{"sender contains", domain.FilterCondition{Field: domain.FilterSender, Operator: domain.OpContains, Value: "BILLING"}, true},
		{"sender not-contains", domain.FilterCondition{Field: domain.FilterSender, Operator: domain.OpNotContains, Value: "billing"}, false},
		{"subject equals", domain.FilterCondition{Field: domain.FilterSubject, Operator: domain.OpEquals, Value: "your invoice #cs12345 is due"}, true},
		{"subject not-equals", domain.FilterCondition{Field: domain.FilterSubject, Operator: domain.OpNotEquals, Value: "invoice"}, true},
		{"subject unsupported op", domain.FilterCondition{Field: domain.FilterSubject, Operator: domain.OpGreater, Value: "a"}, false},
		{"label name contains", domain.FilterCondition{Field: domain.FilterLabelName, Operator: domain.OpContains, Value: "fin"}, true},
		{"label name equals unsupported", domain.FilterCondition{Field: domain.FilterLabelName, Operator: domain.OpEquals, Value: "finance"}, false},
		{"confidence above", domain.FilterCondition{Field: domain.FilterLabelConfidence, Operator: domain.OpGreater, Value: "80"}, true},
		{"confidence below", domain.FilterCondition{Field: domain.FilterLabelConfidence, Operator: domain.OpLess, Value: "80"}, false},
		{"confidence boundary is strict", domain.FilterCondition{Field: domain.FilterLabelConfidence, Operator: domain.OpGreater, Value: "98"}, false},
		{"confidence unparsable", domain.FilterCondition{Field: domain.FilterLabelConfidence, Operator: domain.OpLess, Value: "lots"}, false},
		{"unknown field", domain.FilterCondition{Field: "body", Operator: domain.OpContains, Value: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(&email, tt.cond))
		})
	}
}

func TestApply_Logic(t *testing.T) {
	emails := sample()
	conds := []domain.FilterCondition{
		{Field: domain.FilterSender, Operator: domain.OpContains, Value: "billing"},
		{Field: domain.FilterLabelName, Operator: domain.OpContains, Value: "promo"},
	}

	assert.Empty(t, Apply(emails, conds, domain.LogicAnd))
	assert.Equal(t, []string{"2", "3"}, ids(Apply(emails, conds, domain.LogicOr)))
	assert.Equal(t, ids(emails), ids(Apply(emails, nil, domain.LogicAnd)))
}

func TestApply_ConfidencePartition(t *testing.T) {
	base := Select(sample(), domain.FolderFilter(domain.FolderInbox))
	labelled := Apply(base, []domain.FilterCondition{{Field: domain.FilterLabelName, Operator: domain.OpContains, Value: ""}}, domain.LogicAnd)

	above := Apply(labelled, []domain.FilterCondition{{Field: domain.FilterLabelConfidence, Operator: domain.OpGreater, Value: "80"}}, domain.LogicAnd)
	below := Apply(labelled, []domain.FilterCondition{{Field: domain.FilterLabelConfidence, Operator: domain.OpLess, Value: "80"}}, domain.LogicAnd)

	assert.ElementsMatch(t, ids(labelled), append(ids(above), ids(below)...))
	for _, a := range ids(above) {
		assert.NotContains(t, ids(below), a)
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"80", 0.8, true},
		{" 72.5", 0.725, true},
		{"90%", 0.9, true},
		{"1e2", 1, true},
		{"2.5e-1", 0.0025, true},
		{"5e", 0.05, true},
		{"5E+1x", 0.5, true},
		{".5", 0.005, true},
		{"-10", -0.1, true},
		{".", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(domain.FilterCondition{Field: domain.FilterSender, Operator: domain.OpNotEquals}))
	assert.False(t, Valid(domain.FilterCondition{Field: domain.FilterLabelName, Operator: domain.OpNotContains}))
	assert.True(t, Valid(domain.FilterCondition{Field: domain.FilterLabelConfidence, Operator: domain.OpLess}))
}
