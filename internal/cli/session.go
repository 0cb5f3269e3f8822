package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lu-zhengda/triagemail/internal/app"
	"github.com/lu-zhengda/triagemail/internal/config"
	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/provider"
	"github.com/lu-zhengda/triagemail/internal/provider/gemini"
	"github.com/lu-zhengda/triagemail/internal/provider/mock"
	"github.com/lu-zhengda/triagemail/internal/store"
	"github.com/lu-zhengda/triagemail/internal/store/sqlite"
)

var errNotInitialized = errors.New("mailbox not initialized; run 'triagemail init' first")

// session is one CLI invocation's view of the persisted mailbox.
type session struct {
	cfg      *config.Config
	db       store.Store
	svc      *app.Service
	trained  int
	contacts map[string]bool
}

// openDB creates the data directory and opens the SQLite database.
func openDB() (*sqlite.DB, error) {
	dbPath := dbFile
	if dbPath == "" {
		dataDir := config.DataDir()
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "triagemail.db")
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openSession restores the service from the database. Unless allowEmpty is
// set, a database that was never initialized is an error.
func openSession(ctx context.Context, allowEmpty bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB()
	if err != nil {
		return nil, err
	}

	s, err := restore(ctx, cfg, db, allowEmpty)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func restore(ctx context.Context, cfg *config.Config, db store.Store, allowEmpty bool) (*session, error) {
	sess, err := db.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Initialized && !allowEmpty {
		return nil, errNotInitialized
	}

	emails, err := db.ListEmails(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := db.ListTraining(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := db.ListContacts(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := cfg.DomainRules()
	if err != nil {
		return nil, err
	}
	sortCfg, err := cfg.SortConfig()
	if err != nil {
		return nil, err
	}
	suggester, err := newSuggester(ctx, cfg)
	if err != nil {
		return nil, err
	}

	active := sess.Active
	if active == (domain.ActiveFilter{}) {
		active = domain.FolderFilter(cfg.DefaultFolder())
	}
	if sess.Sort != (domain.SortConfig{}) {
		sortCfg = sess.Sort
	}

	known := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		known[c.ID] = true
	}

	svc := app.New(app.Options{
		Source:    mock.NewSource(),
		Suggester: suggester,
		Rules:     rules,
		Spam:      cfg.SpamSettings(),
		Accounts:  cfg.DomainAccounts(),
		Contacts:  contacts,
		Emails:    emails,
		Training:  entries,
		Active:     active,
		Selected:   sess.Selected,
		Sort:       sortCfg,
		Conditions: sess.Conditions,
		Logic:      sess.Logic,
	})
	return &session{cfg: cfg, db: db, svc: svc, trained: len(entries), contacts: known}, nil
}

// newSuggester builds the configured label suggestion service. A missing
// Gemini key leaves analysis unavailable rather than failing every command.
func newSuggester(ctx context.Context, cfg *config.Config) (provider.LabelSuggester, error) {
	switch cfg.AI.Provider {
	case "mock":
		return mock.Suggester{MaxLabels: cfg.AI.MaxLabels}, nil
	case "gemini":
		timeout, err := cfg.AITimeout()
		if err != nil {
			return nil, err
		}
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:            os.Getenv(cfg.AI.APIKeyEnv),
			Model:             cfg.AI.Model,
			MaxLabels:         cfg.AI.MaxLabels,
			Temperature:       cfg.AI.Temperature,
			Timeout:           timeout,
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
			MaxRetries:        cfg.AI.MaxRetries,
		})
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			log.Printf("[cli] %s is not set; AI labeling disabled", cfg.AI.APIKeyEnv)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
}

// save writes the service state back to the database.
func (s *session) save(ctx context.Context) error {
	if err := s.db.ReplaceEmails(ctx, s.svc.Emails()); err != nil {
		return err
	}
	if err := s.db.AppendTraining(ctx, s.svc.TrainingSince(s.trained)...); err != nil {
		return err
	}

	current := s.svc.Contacts()
	keep := make(map[string]bool, len(current))
	for i := range current {
		keep[current[i].ID] = true
		if err := s.db.UpsertContact(ctx, &current[i]); err != nil {
			return err
		}
	}
	for id := range s.contacts {
		if !keep[id] {
			if err := s.db.DeleteContact(ctx, id); err != nil {
				return err
			}
		}
	}

	q := s.svc.Query()
	return s.db.SetSession(ctx, &store.Session{
		Initialized: true,
		Active:      q.Active,
		Selected:    s.svc.Selected(),
		Sort:        q.Sort,
		Conditions:  q.Conditions,
		Logic:       q.Logic,
	})
}

func (s *session) close() error {
	return s.db.Close()
}

// withSession opens a session, runs fn and, if fn succeeds, saves the result.
func withSession(ctx context.Context, fn func(s *session) error) error {
	s, err := openSession(ctx, false)
	if err != nil {
		return err
	}
	defer s.close()
	if err := fn(s); err != nil {
		return err
	}
	return s.save(ctx)
}

// targets returns args, or the current selection when no ids were given.
func (s *session) targets(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	sel := s.svc.Selected()
	if len(sel) == 0 {
		return nil, errors.New("no email ids given and nothing selected")
	}
	return sel, nil
}
