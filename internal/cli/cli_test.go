package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/store/sqlite"
)

const testConfig = `
[ai]
provider = "mock"

[[rules]]
id = "rule-1"
field = "sender"
operator = "contains"
value = "billing"
action = "add_label"
action_value = "Finance"

[[contacts]]
id = "c-1"
name = "Jane"
emails = ["jane@example.com"]
`

// run executes the command tree against a scratch config and database,
// with stdout discarded.
func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	cfgPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := os.WriteFile(cfgPath, []byte(testConfig), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer devnull.Close()
	stdout := os.Stdout
	os.Stdout = devnull
	defer func() { os.Stdout = stdout }()

	jsonFlag, verboseFlag = false, false
	root := NewRootCmd()
	root.SetArgs(append([]string{"--config", cfgPath, "--db", filepath.Join(dir, "test.db")}, args...))
	return root.Execute()
}

func openState(t *testing.T, dir string) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func emailByID(t *testing.T, db *sqlite.DB, id string) domain.Email {
	t.Helper()
	emails, err := db.ListEmails(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range emails {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("email %s not stored", id)
	return domain.Email{}
}

func TestCLI_RequiresInit(t *testing.T) {
	dir := t.TempDir()
	if err := run(t, dir, "list"); err == nil {
		t.Fatal("list before init should fail")
	}
}

func TestCLI_Session(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if err := run(t, dir, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := run(t, dir, "init"); err == nil {
		t.Error("second init without --force should fail")
	}

	db := openState(t, dir)
	sess, err := db.GetSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Selected) != 1 || sess.Selected[0] != "1" {
		t.Fatalf("selection after init = %v, want [1]", sess.Selected)
	}
	contacts, _ := db.ListContacts(ctx)
	if len(contacts) != 1 || contacts[0].Name != "Jane" {
		t.Errorf("contacts after init = %+v, want Jane from config", contacts)
	}

	// Deleting the selected email moves focus to the next one in the view.
	if err := run(t, dir, "delete"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if len(sess.Selected) != 1 || sess.Selected[0] != "2" {
		t.Errorf("selection after delete = %v, want [2]", sess.Selected)
	}
	if got := emailByID(t, db, "1").Folder; got != domain.FolderTrash {
		t.Errorf("email 1 folder = %q, want Trash", got)
	}

	if err := run(t, dir, "label", "add", "3", "Support"); err != nil {
		t.Fatalf("label add: %v", err)
	}
	if err := run(t, dir, "label", "add", "3", "support"); err == nil {
		t.Error("duplicate label should fail")
	}
	training, _ := db.ListTraining(ctx)
	if len(training) != 1 || training[0].Label != "Support" {
		t.Errorf("training = %+v, want one Support entry", training)
	}

	if err := run(t, dir, "analyze", "4"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !emailByID(t, db, "4").HasSource(domain.SourceAI) {
		t.Error("analyze should add AI labels to email 4")
	}

	if err := run(t, dir, "empty-trash"); err != nil {
		t.Fatalf("empty-trash: %v", err)
	}
	emails, _ := db.ListEmails(ctx)
	for _, e := range emails {
		if e.Folder == domain.FolderTrash {
			t.Errorf("email %s still in Trash", e.ID)
		}
	}

	if err := run(t, dir, "send", "--to", "bob@example.com", "--body", "hi", "--reply-to", "3"); err != nil {
		t.Fatalf("send: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if sess.Active.Folder != domain.FolderSent {
		t.Errorf("active after send = %+v, want Sent", sess.Active)
	}
	if !emailByID(t, db, "3").Read {
		t.Error("replied-to email should be read")
	}

	if err := run(t, dir, "list", "--folder", "archive"); err != nil {
		t.Fatalf("list: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if sess.Active.Folder != domain.FolderArchive {
		t.Errorf("active after list --folder = %+v, want Archive", sess.Active)
	}

	if err := run(t, dir, "contacts", "remove", "c-1"); err != nil {
		t.Fatalf("contacts remove: %v", err)
	}
	contacts, _ = db.ListContacts(ctx)
	if len(contacts) != 0 {
		t.Errorf("contacts after remove = %+v, want none", contacts)
	}
}

func TestCLI_ListViewCarriesToNextCommand(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if err := run(t, dir, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	// Inbox by sender: 2 billing, 5 Jane Doe, 4 marketing, 1 newsletter, 3 support.
	if err := run(t, dir, "list", "--sort", "sender", "--asc"); err != nil {
		t.Fatalf("list: %v", err)
	}
	db := openState(t, dir)
	sess, err := db.GetSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.SortConfig{Key: domain.SortSender, Direction: domain.Asc}
	if sess.Sort != want {
		t.Errorf("saved sort = %+v, want %+v", sess.Sort, want)
	}

	// Email 1 is fourth in the sender order, so focus moves to 3 rather
	// than to 2, its neighbour in the default newest-first order.
	if err := run(t, dir, "delete"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if len(sess.Selected) != 1 || sess.Selected[0] != "3" {
		t.Errorf("selection after delete = %v, want [3]", sess.Selected)
	}

	if err := run(t, dir, "list", "--where", "subject:contains:invoice", "--any"); err != nil {
		t.Fatalf("list --where: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if len(sess.Conditions) != 1 || sess.Conditions[0].Value != "invoice" || sess.Logic != domain.LogicOr {
		t.Errorf("saved conditions = %+v %q, want one invoice condition with OR", sess.Conditions, sess.Logic)
	}

	if err := run(t, dir, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if len(sess.Conditions) != 1 {
		t.Errorf("plain list should keep conditions, got %+v", sess.Conditions)
	}

	if err := run(t, dir, "list", "--clear"); err != nil {
		t.Fatalf("list --clear: %v", err)
	}
	sess, _ = db.GetSession(ctx)
	if len(sess.Conditions) != 0 || sess.Logic != domain.LogicAnd {
		t.Errorf("conditions after --clear = %+v %q, want none with AND", sess.Conditions, sess.Logic)
	}
	if sess.Sort != want {
		t.Errorf("sort after --clear = %+v, want %+v", sess.Sort, want)
	}
}
