// Package app wires the triage engine into the operations a user issues:
// ingestion, bulk actions with selection continuity, label edits with
// training feedback, composing mail and contacts.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/mailbox"
	"github.com/lu-zhengda/triagemail/internal/provider"
	"github.com/lu-zhengda/triagemail/internal/reconcile"
	"github.com/lu-zhengda/triagemail/internal/training"
	"github.com/lu-zhengda/triagemail/internal/view"
)

var (
	// ErrInvalidLabel is returned for a label name that is empty after trimming.
	ErrInvalidLabel = errors.New("label name is empty")
	// ErrDuplicateLabel is returned when another label on the email already
	// has the name, ignoring case.
	ErrDuplicateLabel = errors.New("label name already exists on email")
	// ErrLabelNotFound is returned when the email has no label with the id.
	ErrLabelNotFound = errors.New("label not found")
	// ErrNoSuggester is returned by Analyze when no suggestion service is set.
	ErrNoSuggester = errors.New("no label suggestion service configured")
)

// Options configures a Service. Emails, Training and the view fields from
// Active to Logic restore a previous session.
type Options struct {
	Source    provider.EmailSource
	Suggester provider.LabelSuggester
	Rules     []domain.Rule
	Spam      domain.SpamSettings
	Accounts  []domain.Account
	Contacts  []domain.Contact

	Emails   []domain.Email
	Training []domain.TrainingEntry
	Active   domain.ActiveFilter
	Selected   []string
	Sort       domain.SortConfig
	Conditions []domain.FilterCondition
	Logic      domain.FilterLogic

	// KeepRetryingFailures leaves emails eligible for analysis after a
	// failed suggestion call instead of marking them skipped.
	KeepRetryingFailures bool

	Now   func() time.Time
	NewID func() string
}

// Service is the triage engine's command and query surface.
type Service struct {
	source     provider.EmailSource
	rules      []domain.Rule
	accounts   []domain.Account
	mailbox    *mailbox.Store
	training   *training.Log
	reconciler *reconcile.Reconciler
	now        func() time.Time
	newID      func() string

	mu       sync.Mutex
	query    view.Query
	selected []string
	contacts []domain.Contact
}

// New returns a Service restored from opts.
func New(opts Options) *Service {
	s := &Service{
		source:   opts.Source,
		rules:    opts.Rules,
		accounts: opts.Accounts,
		mailbox:  mailbox.NewStore(opts.Emails),
		training: training.NewLog(opts.Training),
		now:      opts.Now,
		newID:    opts.NewID,
		query:    view.DefaultQuery(),
		selected: append([]string(nil), opts.Selected...),
		contacts: append([]domain.Contact(nil), opts.Contacts...),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return "email-" + uuid.NewString() }
	}
	s.training.SetClock(s.now)
	if opts.Active != (domain.ActiveFilter{}) {
		s.query.Active = opts.Active
	}
	if opts.Sort != (domain.SortConfig{}) {
		s.query.Sort = opts.Sort
	}
	s.query.Conditions = append([]domain.FilterCondition(nil), opts.Conditions...)
	if opts.Logic != "" {
		s.query.Logic = opts.Logic
	}
	if opts.Suggester != nil {
		s.reconciler = reconcile.New(s.mailbox, opts.Suggester, opts.Spam)
		s.reconciler.SkipOnFailure = !opts.KeepRetryingFailures
	}
	return s
}

// Emails returns every email in canonical store order.
func (s *Service) Emails() []domain.Email {
	return s.mailbox.Emails()
}

// Email returns one email by id.
func (s *Service) Email(id string) (domain.Email, bool) {
	return s.mailbox.Email(id)
}

// Query returns the current view query.
func (s *Service) Query() view.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.query
	q.Conditions = append([]domain.FilterCondition(nil), q.Conditions...)
	return q
}

// Active returns the folder or label bucket being viewed.
func (s *Service) Active() domain.ActiveFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Active
}

// SetActive switches the viewed bucket.
func (s *Service) SetActive(a domain.ActiveFilter) {
	s.mu.Lock()
	s.query.Active = a
	s.mu.Unlock()
}

// SetConditions replaces the advanced filter conditions.
func (s *Service) SetConditions(conds []domain.FilterCondition, logic domain.FilterLogic) {
	s.mu.Lock()
	s.query.Conditions = append([]domain.FilterCondition(nil), conds...)
	s.query.Logic = logic
	s.mu.Unlock()
}

// SetSort replaces the sort order.
func (s *Service) SetSort(cfg domain.SortConfig) {
	s.mu.Lock()
	s.query.Sort = cfg
	s.mu.Unlock()
}

// Displayed returns the filtered and sorted list for the current query.
func (s *Service) Displayed() []domain.Email {
	return view.Build(s.mailbox.Emails(), s.Query())
}

// Selected returns the selected email ids.
func (s *Service) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

// Select replaces the selection.
func (s *Service) Select(ids ...string) {
	s.mu.Lock()
	s.selected = append([]string(nil), ids...)
	s.mu.Unlock()
}

// Counts holds the sidebar unread counters.
type Counts struct {
	Folders map[domain.Folder]int
	Labels  map[string]int
}

// UnreadCounts returns unread counters per folder and per label name.
func (s *Service) UnreadCounts() Counts {
	emails := s.mailbox.Emails()
	return Counts{
		Folders: view.UnreadByFolder(emails),
		Labels:  view.UnreadByLabel(emails),
	}
}

// Labels returns the label catalogue.
func (s *Service) Labels() []view.LabelCount {
	return view.Labels(s.mailbox.Emails())
}

// Training returns every recorded training entry.
func (s *Service) Training() []domain.TrainingEntry {
	return s.training.Entries()
}

// TrainingSince returns entries recorded after the first n.
func (s *Service) TrainingSince(n int) []domain.TrainingEntry {
	return s.training.Since(n)
}

// Rules returns the rules applied on ingestion.
func (s *Service) Rules() []domain.Rule {
	return append([]domain.Rule(nil), s.rules...)
}

// IsAnalyzing reports whether a suggestion call is in flight.
func (s *Service) IsAnalyzing() bool {
	return s.reconciler != nil && s.reconciler.IsAnalyzing()
}
