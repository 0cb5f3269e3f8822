package provider

import (
	"context"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// EmailSource supplies the mailbox contents at startup.
type EmailSource interface {
	FetchInitialEmails(ctx context.Context) ([]domain.Email, error)
}

// LabelSuggester proposes labels for an email body. Implementations may be
// slow and may fail.
type LabelSuggester interface {
	SuggestLabels(ctx context.Context, body string) ([]domain.Suggestion, error)
}

// SuggesterFunc adapts a function to LabelSuggester.
type SuggesterFunc func(ctx context.Context, body string) ([]domain.Suggestion, error)

func (f SuggesterFunc) SuggestLabels(ctx context.Context, body string) ([]domain.Suggestion, error) {
	return f(ctx, body)
}
