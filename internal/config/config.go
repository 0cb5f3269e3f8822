package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

// Config holds all triagemail configuration.
type Config struct {
	Spam     SpamConfig      `toml:"spam"`
	AI       AIConfig        `toml:"ai"`
	View     ViewConfig      `toml:"view"`
	Rules    []RuleConfig    `toml:"rules"`
	Accounts []AccountConfig `toml:"accounts"`
	Contacts []ContactConfig `toml:"contacts"`
}

// SpamConfig controls Junk promotion of AI spam suggestions.
type SpamConfig struct {
	Enabled             bool    `toml:"enabled"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// AIConfig selects and tunes the label suggestion service.
type AIConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	APIKeyEnv         string  `toml:"api_key_env"`
	MaxLabels         int     `toml:"max_labels"`
	Temperature       float64 `toml:"temperature"`
	Timeout           string  `toml:"timeout"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
	MaxRetries        int     `toml:"max_retries"`
}

// ViewConfig holds the default list view.
type ViewConfig struct {
	Folder        string `toml:"folder"`
	SortKey       string `toml:"sort_key"`
	SortDirection string `toml:"sort_direction"`
}

// RuleConfig is the file form of a rule. Action is "add_label" or
// "move_to_folder".
type RuleConfig struct {
	ID          string `toml:"id"`
	Field       string `toml:"field"`
	Operator    string `toml:"operator"`
	Value       string `toml:"value"`
	Action      string `toml:"action"`
	ActionValue string `toml:"action_value"`
}

type AccountConfig struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	EmailAddress string `toml:"email_address"`
}

type ContactConfig struct {
	ID     string   `toml:"id"`
	Name   string   `toml:"name"`
	Emails []string `toml:"emails"`
}

const (
	ActionAddLabel     = "add_label"
	ActionMoveToFolder = "move_to_folder"
)

func defaults() Config {
	return Config{
		Spam: SpamConfig{
			Enabled:             true,
			ConfidenceThreshold: 0.9,
		},
		AI: AIConfig{
			Provider:          "gemini",
			Model:             "gemini-2.5-flash",
			APIKeyEnv:         "GEMINI_API_KEY",
			MaxLabels:         15,
			Temperature:       0.3,
			Timeout:           "30s",
			RequestsPerMinute: 30,
			MaxRetries:        3,
		},
		View: ViewConfig{
			Folder:        string(domain.FolderInbox),
			SortKey:       string(domain.SortTimestamp),
			SortDirection: string(domain.Desc),
		},
		Rules: []RuleConfig{
			{ID: "rule-1", Field: "sender", Operator: "contains", Value: "billing", Action: ActionAddLabel, ActionValue: "Finance"},
			{ID: "rule-2", Field: "subject", Operator: "contains", Value: "sale", Action: ActionAddLabel, ActionValue: "Promotion"},
			{ID: "rule-3", Field: "sender", Operator: "contains", Value: "newsletter", Action: ActionAddLabel, ActionValue: "Newsletter"},
		},
	}
}

// Load reads config from path. If path is empty, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	// Rules from the file replace the defaults rather than merging into them.
	cfg.Rules = nil
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !md.IsDefined("rules") {
		cfg.Rules = defaults().Rules
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if c.Spam.ConfidenceThreshold < 0 || c.Spam.ConfidenceThreshold > 1 {
		return fmt.Errorf("spam.confidence_threshold must be between 0 and 1, got %v", c.Spam.ConfidenceThreshold)
	}
	switch c.AI.Provider {
	case "gemini", "mock":
	default:
		return fmt.Errorf("unknown ai.provider %q", c.AI.Provider)
	}
	if _, err := c.AITimeout(); err != nil {
		return err
	}
	if _, err := c.SortConfig(); err != nil {
		return err
	}
	if _, ok := domain.ParseFolder(c.View.Folder); !ok {
		return fmt.Errorf("unknown view.folder %q", c.View.Folder)
	}
	_, err := c.DomainRules()
	return err
}

// AITimeout parses the per-request timeout; empty means none.
func (c *Config) AITimeout() (time.Duration, error) {
	if c.AI.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.AI.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid ai.timeout %q: %w", c.AI.Timeout, err)
	}
	return d, nil
}

// SpamSettings returns the spam section in domain form.
func (c *Config) SpamSettings() domain.SpamSettings {
	return domain.SpamSettings{
		Enabled:             c.Spam.Enabled,
		ConfidenceThreshold: c.Spam.ConfidenceThreshold,
	}
}

// SortConfig returns the default sort order.
func (c *Config) SortConfig() (domain.SortConfig, error) {
	key := domain.SortKey(c.View.SortKey)
	switch key {
	case domain.SortTimestamp, domain.SortRead, domain.SortSender:
	default:
		return domain.SortConfig{}, fmt.Errorf("unknown view.sort_key %q", c.View.SortKey)
	}
	dir := domain.SortDirection(c.View.SortDirection)
	if dir != domain.Asc && dir != domain.Desc {
		return domain.SortConfig{}, fmt.Errorf("unknown view.sort_direction %q", c.View.SortDirection)
	}
	return domain.SortConfig{Key: key, Direction: dir}, nil
}

// DefaultFolder returns the folder shown when no filter is given.
func (c *Config) DefaultFolder() domain.Folder {
	if f, ok := domain.ParseFolder(c.View.Folder); ok {
		return f
	}
	return domain.FolderInbox
}

// DomainRules converts the configured rules, in file order.
func (c *Config) DomainRules() ([]domain.Rule, error) {
	out := make([]domain.Rule, 0, len(c.Rules))
	for i, r := range c.Rules {
		rule, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		if rule.ID == "" {
			rule.ID = fmt.Sprintf("rule-%d", i+1)
		}
		out = append(out, rule)
	}
	return out, nil
}

func (r RuleConfig) toDomain() (domain.Rule, error) {
	field := domain.RuleField(r.Field)
	switch field {
	case domain.RuleFieldSender, domain.RuleFieldSubject, domain.RuleFieldBody:
	default:
		return domain.Rule{}, fmt.Errorf("unknown field %q", r.Field)
	}
	op := domain.RuleOperator(r.Operator)
	if op != domain.RuleContains && op != domain.RuleEquals {
		return domain.Rule{}, fmt.Errorf("unknown operator %q", r.Operator)
	}

	var action domain.RuleAction
	switch r.Action {
	case ActionAddLabel:
		if r.ActionValue == "" {
			return domain.Rule{}, fmt.Errorf("add_label needs an action_value")
		}
		action = domain.AddLabel{Name: r.ActionValue}
	case ActionMoveToFolder:
		folder, ok := domain.ParseFolder(r.ActionValue)
		if !ok {
			return domain.Rule{}, fmt.Errorf("unknown folder %q", r.ActionValue)
		}
		action = domain.MoveToFolder{Folder: folder}
	default:
		return domain.Rule{}, fmt.Errorf("unknown action %q", r.Action)
	}

	return domain.Rule{
		ID:        r.ID,
		Condition: domain.RuleCondition{Field: field, Operator: op, Value: r.Value},
		Action:    action,
	}, nil
}

// DomainAccounts returns the configured accounts.
func (c *Config) DomainAccounts() []domain.Account {
	out := make([]domain.Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		out = append(out, domain.Account{ID: a.ID, Name: a.Name, EmailAddress: a.EmailAddress})
	}
	return out
}

// DomainContacts returns the configured contacts.
func (c *Config) DomainContacts() []domain.Contact {
	out := make([]domain.Contact, 0, len(c.Contacts))
	for _, ct := range c.Contacts {
		out = append(out, domain.Contact{ID: ct.ID, Name: ct.Name, Emails: append([]string(nil), ct.Emails...)})
	}
	return out
}

// ConfigDir returns the triagemail config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "triagemail")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "triagemail")
}

// DataDir returns the triagemail data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "triagemail")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "triagemail")
}
