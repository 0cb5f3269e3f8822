package app

import (
	"context"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
)

// Analyze asks the suggestion service for labels for the email and merges
// them in. With force, an earlier failure no longer blocks the attempt.
func (s *Service) Analyze(ctx context.Context, emailID string, force bool) ([]domain.Label, error) {
	if s.reconciler == nil {
		return nil, ErrNoSuggester
	}
	if force {
		s.mailbox.Dispatch(mailbox.SetAnalysisSkipped{IDs: []string{emailID}, Skipped: false})
	}
	return s.reconciler.Reconcile(ctx, emailID)
}

// AnalyzeAsync starts Analyze in the background. The returned channel
// yields its error, if any, and is then closed.
func (s *Service) AnalyzeAsync(ctx context.Context, emailID string) <-chan error {
	if s.reconciler == nil {
		done := make(chan error, 1)
		done <- ErrNoSuggester
		close(done)
		return done
	}
	return s.reconciler.Start(ctx, emailID)
}
