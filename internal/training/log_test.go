package training

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

func TestLog_Record(t *testing.T) {
	fixed := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)
	l := NewLog(nil)
	l.SetClock(func() time.Time { return fixed })

	e := l.Record("body", "Finance", domain.FeedbackPositive)

	assert.True(t, strings.HasPrefix(e.ID, "td-"))
	assert.Equal(t, "Finance", e.Label)
	assert.Equal(t, domain.FeedbackPositive, e.Feedback)
	assert.Equal(t, fixed, e.Timestamp)
	assert.Equal(t, 1, l.Len())
}

func TestLog_SinceAndEntries(t *testing.T) {
	existing := []domain.TrainingEntry{{ID: "td-old", Label: "Work", Feedback: domain.FeedbackNegative}}
	l := NewLog(existing)

	l.Record("b1", "Finance", domain.FeedbackPositive)
	l.Record("b2", "Promo", domain.FeedbackNegative)

	all := l.Entries()
	require.Len(t, all, 3)
	assert.Equal(t, "td-old", all[0].ID)

	fresh := l.Since(len(existing))
	require.Len(t, fresh, 2)
	assert.Equal(t, "Finance", fresh[0].Label)
	assert.Nil(t, l.Since(10))
	assert.Len(t, l.Since(-1), 3)

	all[0].Label = "mutated"
	assert.Equal(t, "Work", l.Entries()[0].Label)
}

func TestLog_UniqueIDs(t *testing.T) {
	l := NewLog(nil)
	a := l.Record("", "x", domain.FeedbackPositive)
	b := l.Record("", "x", domain.FeedbackPositive)
	assert.NotEqual(t, a.ID, b.ID)
}
