package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
)

func labeled() *Service {
	return New(Options{Emails: []domain.Email{{
		ID:     "e1",
		Body:   "quarterly invoice",
		Folder: domain.FolderInbox,
		Labels: []domain.Label{
			{ID: "ai-1", Name: "Invoices", Confidence: 0.7, Source: domain.SourceAI},
			{ID: "rule-1", Name: "Finance", Confidence: 1, Source: domain.SourceRule},
			{ID: "user-1", Name: "Important", Confidence: 1, Source: domain.SourceUser},
		},
	}}})
}

func TestConfirmAILabel(t *testing.T) {
	s := labeled()

	got, err := s.ConfirmAILabel("e1", "ai-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceUser, got.Source)
	assert.Equal(t, 1.0, got.Confidence)

	e, _ := s.Email("e1")
	l, ok := e.LabelByID("ai-1")
	require.True(t, ok)
	assert.Equal(t, domain.SourceUser, l.Source)
	assert.Equal(t, 1.0, l.Confidence)

	entries := s.Training()
	require.Len(t, entries, 1)
	assert.Equal(t, "Invoices", entries[0].Label)
	assert.Equal(t, domain.FeedbackPositive, entries[0].Feedback)
	assert.Equal(t, "quarterly invoice", entries[0].EmailBody)
}

func TestConfirmAILabel_Unknown(t *testing.T) {
	s := labeled()

	_, err := s.ConfirmAILabel("e1", "nope")
	assert.ErrorIs(t, err, ErrLabelNotFound)
	_, err = s.ConfirmAILabel("missing", "ai-1")
	assert.ErrorIs(t, err, mailbox.ErrNotFound)
	assert.Empty(t, s.Training())
}

func TestRemoveLabel_FeedbackBySource(t *testing.T) {
	tests := []struct {
		labelID string
		logged  bool
	}{
		{"rule-1", false},
		{"user-1", true},
		{"ai-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.labelID, func(t *testing.T) {
			s := labeled()
			removed, err := s.RemoveLabel("e1", tt.labelID)
			require.NoError(t, err)
			assert.Equal(t, tt.labelID, removed.ID)

			e, _ := s.Email("e1")
			_, still := e.LabelByID(tt.labelID)
			assert.False(t, still)

			if tt.logged {
				require.Len(t, s.Training(), 1)
				assert.Equal(t, domain.FeedbackNegative, s.Training()[0].Feedback)
				assert.Equal(t, removed.Name, s.Training()[0].Label)
			} else {
				assert.Empty(t, s.Training())
			}
		})
	}
}

func TestRejectAILabel_AlwaysLogs(t *testing.T) {
	s := labeled()
	e, _ := s.Email("e1")
	label, _ := e.LabelByID("ai-1")

	require.NoError(t, s.RejectAILabel("e1", label))
	// A second rejection changes nothing but is still feedback.
	require.NoError(t, s.RejectAILabel("e1", label))

	e, _ = s.Email("e1")
	assert.Len(t, e.Labels, 2)
	entries := s.Training()
	require.Len(t, entries, 2)
	for _, en := range entries {
		assert.Equal(t, domain.FeedbackNegative, en.Feedback)
		assert.Equal(t, "Invoices", en.Label)
	}

	assert.ErrorIs(t, s.RejectAILabel("missing", label), mailbox.ErrNotFound)
}

func TestUpdateLabel(t *testing.T) {
	t.Run("rename forces user source", func(t *testing.T) {
		s := labeled()
		got, err := s.UpdateLabel("e1", "ai-1", "  Bills  ")
		require.NoError(t, err)
		assert.Equal(t, domain.Label{ID: "ai-1", Name: "Bills", Confidence: 1, Source: domain.SourceUser}, got)

		e, _ := s.Email("e1")
		assert.Len(t, e.Labels, 3)
		require.Len(t, s.Training(), 1)
		assert.Equal(t, "Bills", s.Training()[0].Label)
		assert.Equal(t, domain.FeedbackPositive, s.Training()[0].Feedback)
	})

	t.Run("case change of the same label", func(t *testing.T) {
		s := labeled()
		_, err := s.UpdateLabel("e1", "ai-1", "INVOICES")
		require.NoError(t, err)
	})

	t.Run("unknown id appends", func(t *testing.T) {
		s := labeled()
		_, err := s.UpdateLabel("e1", "new-1", "Travel")
		require.NoError(t, err)
		e, _ := s.Email("e1")
		require.Len(t, e.Labels, 4)
		assert.Equal(t, "Travel", e.Labels[3].Name)
	})

	t.Run("empty name", func(t *testing.T) {
		s := labeled()
		_, err := s.UpdateLabel("e1", "ai-1", "   ")
		assert.ErrorIs(t, err, ErrInvalidLabel)
		assert.Empty(t, s.Training())
	})

	t.Run("duplicate name ignoring case", func(t *testing.T) {
		s := labeled()
		before, _ := s.Email("e1")
		_, err := s.UpdateLabel("e1", "ai-1", "finance")
		assert.ErrorIs(t, err, ErrDuplicateLabel)
		after, _ := s.Email("e1")
		assert.Equal(t, before, after)
		assert.Empty(t, s.Training())
	})

	t.Run("unknown email", func(t *testing.T) {
		s := labeled()
		_, err := s.UpdateLabel("missing", "x", "Travel")
		assert.ErrorIs(t, err, mailbox.ErrNotFound)
		assert.Empty(t, s.Training())
	})
}

func TestAddLabel(t *testing.T) {
	s := labeled()
	got, err := s.AddLabel("e1", "Travel")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelID("e1", "Travel", domain.SourceUser), got.ID)

	_, err = s.AddLabel("e1", "travel")
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}
