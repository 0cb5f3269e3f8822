// Package reconcile merges AI label suggestions into the mailbox.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
	"github.com/lu-zhengda/triagemail/internal/provider"
)

var (
	// ErrSkipped means the email was not analyzed because it already has AI
	// labels or analysis was switched off for it.
	ErrSkipped = errors.New("analysis skipped")
	// ErrDiscarded means suggestions arrived but were not applied because the
	// email was removed or analyzed by someone else in the meantime.
	ErrDiscarded = errors.New("suggestions discarded")
)

// Mailbox is the view of the store the reconciler needs: a fresh read and a
// read-modify-write that sees the latest state.
type Mailbox interface {
	Email(id string) (domain.Email, bool)
	Transact(id string, fn func(current domain.Email) (mailbox.Command, bool)) bool
	Dispatch(cmd mailbox.Command)
}

// Reconciler runs at most one successful analysis per email.
type Reconciler struct {
	mailbox   Mailbox
	suggester provider.LabelSuggester
	spam      domain.SpamSettings
	// SkipOnFailure marks an email AnalysisSkipped after a failed call.
	SkipOnFailure bool

	analyzing atomic.Int32
}

// New returns a Reconciler with failures marking emails as skipped.
func New(mb Mailbox, s provider.LabelSuggester, spam domain.SpamSettings) *Reconciler {
	return &Reconciler{
		mailbox:       mb,
		suggester:     s,
		spam:          spam,
		SkipOnFailure: true,
	}
}

// IsAnalyzing reports whether any suggestion call is in flight.
func (r *Reconciler) IsAnalyzing() bool {
	return r.analyzing.Load() > 0
}

// Reconcile asks for suggestions for the email's body and merges them into
// the email's current labels. It returns the labels that were added.
func (r *Reconciler) Reconcile(ctx context.Context, emailID string) ([]domain.Label, error) {
	email, ok := r.mailbox.Email(emailID)
	if !ok {
		return nil, fmt.Errorf("failed to analyze email %s: %w", emailID, mailbox.ErrNotFound)
	}
	if !eligible(&email) {
		return nil, ErrSkipped
	}

	r.analyzing.Add(1)
	suggestions, err := r.suggester.SuggestLabels(ctx, email.Body)
	r.analyzing.Add(-1)
	if err != nil {
		log.Printf("[reconcile] suggestion call failed for email %s: %v", emailID, err)
		if r.SkipOnFailure {
			r.mailbox.Dispatch(mailbox.SetAnalysisSkipped{IDs: []string{emailID}, Skipped: true})
		}
		return nil, fmt.Errorf("failed to get label suggestions for email %s: %w", emailID, err)
	}

	var added []domain.Label
	applied := r.mailbox.Transact(emailID, func(current domain.Email) (mailbox.Command, bool) {
		// Another analysis may have landed while we were waiting.
		if !eligible(&current) {
			return nil, false
		}
		merged, fresh := Merge(current, suggestions, r.spam)
		added = fresh
		return mailbox.UpdateLabels{EmailID: current.ID, Labels: merged}, true
	})
	if !applied {
		log.Printf("[reconcile] discarded %d suggestions for email %s", len(suggestions), emailID)
		return nil, ErrDiscarded
	}

	log.Printf("[reconcile] added %d labels to email %s", len(added), emailID)
	return added, nil
}

// Start runs Reconcile in a goroutine and delivers its error, if any, on the
// returned channel.
func (r *Reconciler) Start(ctx context.Context, emailID string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := r.Reconcile(ctx, emailID)
		done <- err
	}()
	return done
}

func eligible(e *domain.Email) bool {
	return !e.AnalysisSkipped && !e.HasSource(domain.SourceAI)
}

// Merge appends suggestions whose names are not already on current, then
// adds a Junk label when a new spam suggestion clears the spam threshold. It
// returns the merged label list and the labels that were added.
func Merge(current domain.Email, suggestions []domain.Suggestion, spam domain.SpamSettings) ([]domain.Label, []domain.Label) {
	existing := make(map[string]struct{}, len(current.Labels))
	for _, l := range current.Labels {
		existing[strings.ToLower(l.Name)] = struct{}{}
	}

	var fresh []domain.Label
	for _, s := range suggestions {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			continue
		}
		if _, dup := existing[key]; dup {
			continue
		}
		existing[key] = struct{}{}
		fresh = append(fresh, domain.Label{
			ID:         domain.LabelID(current.ID, s.Name, domain.SourceAI),
			Name:       s.Name,
			Confidence: clamp(s.Confidence),
			Source:     domain.SourceAI,
		})
	}

	merged := make([]domain.Label, 0, len(current.Labels)+len(fresh)+1)
	merged = append(merged, current.Labels...)
	merged = append(merged, fresh...)

	if spam.Enabled {
		if junk, ok := spamSuggestion(fresh); ok && junk.Confidence >= spam.ConfidenceThreshold && !hasJunk(merged) {
			label := domain.Label{
				ID:         domain.LabelID(current.ID, domain.JunkLabel, domain.SourceAI),
				Name:       domain.JunkLabel,
				Confidence: junk.Confidence,
				Source:     domain.SourceAI,
			}
			merged = append(merged, label)
			fresh = append(fresh, label)
		}
	}
	return merged, fresh
}

func spamSuggestion(labels []domain.Label) (domain.Label, bool) {
	for _, l := range labels {
		name := strings.ToLower(l.Name)
		if name == "junk" || name == "spam" {
			return l, true
		}
	}
	return domain.Label{}, false
}

func hasJunk(labels []domain.Label) bool {
	for _, l := range labels {
		if strings.EqualFold(l.Name, domain.JunkLabel) {
			return true
		}
	}
	return false
}

func clamp(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
