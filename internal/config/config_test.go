package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lu-zhengda/triagemail/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Spam.Enabled {
		t.Error("spam detection should be enabled by default")
	}
	if cfg.Spam.ConfidenceThreshold != 0.9 {
		t.Errorf("default threshold = %v, want 0.9", cfg.Spam.ConfidenceThreshold)
	}
	if cfg.AI.MaxLabels != 15 {
		t.Errorf("default max_labels = %d, want 15", cfg.AI.MaxLabels)
	}
	rules, err := cfg.DomainRules()
	if err != nil {
		t.Fatalf("DomainRules() error: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("default rules = %d, want 3", len(rules))
	}
	if got := rules[0].Action.(domain.AddLabel).Name; got != "Finance" {
		t.Errorf("rules[0] label = %q, want %q", got, "Finance")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[spam]
enabled = false
confidence_threshold = 0.75

[ai]
provider = "mock"
timeout = "5s"

[view]
folder = "archive"
sort_key = "sender"
sort_direction = "asc"

[[rules]]
id = "r-promo"
field = "body"
operator = "equals"
value = "buy now"
action = "move_to_folder"
action_value = "Spam"

[[accounts]]
id = "acc-1"
name = "Personal"
email_address = "me@example.com"

[[contacts]]
id = "c-1"
name = "Jane"
emails = ["jane@example.com", "jane@work.com"]
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SpamSettings().Enabled {
		t.Error("spam should be disabled")
	}
	if d, _ := cfg.AITimeout(); d != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", d)
	}
	if got := cfg.DefaultFolder(); got != domain.FolderArchive {
		t.Errorf("DefaultFolder() = %q, want %q", got, domain.FolderArchive)
	}
	sc, err := cfg.SortConfig()
	if err != nil || sc.Key != domain.SortSender || sc.Direction != domain.Asc {
		t.Errorf("SortConfig() = %+v, %v", sc, err)
	}

	rules, err := cfg.DomainRules()
	if err != nil {
		t.Fatalf("DomainRules() error: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1 (file replaces defaults)", len(rules))
	}
	move, ok := rules[0].Action.(domain.MoveToFolder)
	if !ok || move.Folder != domain.FolderSpam {
		t.Errorf("rules[0].Action = %#v, want MoveToFolder(Spam)", rules[0].Action)
	}

	if accts := cfg.DomainAccounts(); len(accts) != 1 || accts[0].EmailAddress != "me@example.com" {
		t.Errorf("DomainAccounts() = %+v", accts)
	}
	if contacts := cfg.DomainContacts(); len(contacts) != 1 || len(contacts[0].Emails) != 2 {
		t.Errorf("DomainContacts() = %+v", contacts)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("provider = %q, want default %q", cfg.AI.Provider, "gemini")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("not valid [[ toml"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("error = %q, want it to contain %q", err.Error(), "failed to parse config")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"threshold", "[spam]\nconfidence_threshold = 1.5\n", "confidence_threshold"},
		{"provider", "[ai]\nprovider = \"openai\"\n", "ai.provider"},
		{"sort key", "[view]\nsort_key = \"size\"\n", "sort_key"},
		{"rule field", "[[rules]]\nfield = \"to\"\noperator = \"contains\"\naction = \"add_label\"\naction_value = \"x\"\n", "unknown field"},
		{"rule folder", "[[rules]]\nfield = \"sender\"\noperator = \"contains\"\naction = \"move_to_folder\"\naction_value = \"Drafts\"\n", "unknown folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if dir := ConfigDir(); dir != "/custom/config/triagemail" {
			t.Errorf("ConfigDir() = %q, want %q", dir, "/custom/config/triagemail")
		}
	})
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		dir := ConfigDir()
		if !strings.HasSuffix(dir, filepath.Join(".config", "triagemail")) {
			t.Errorf("ConfigDir() = %q, want suffix %q", dir, filepath.Join(".config", "triagemail"))
		}
	})
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if dir := DataDir(); dir != "/custom/data/triagemail" {
		t.Errorf("DataDir() = %q, want %q", dir, "/custom/data/triagemail")
	}
}

func TestLoad_RulesWithoutIDGetPositionalIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[[rules]]
field = "subject"
operator = "contains"
value = "urgent"
action = "add_label"
action_value = "Urgent"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	rules, err := cfg.DomainRules()
	if err != nil {
		t.Fatalf("DomainRules() error: %v", err)
	}
	if len(rules) != 1 || rules[0].ID != "rule-1" || rules[0].Condition.Value != "urgent" {
		t.Errorf("rules = %+v, want one rule-1 matching urgent", rules)
	}
}

func TestLoad_FileWithoutRulesKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[spam]\nenabled = true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Rules) != 3 {
		t.Errorf("rules = %d, want the 3 defaults", len(cfg.Rules))
	}
}
