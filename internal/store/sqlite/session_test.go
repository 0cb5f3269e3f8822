package sqlite

import (
	"context"
	"testing"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/store"
)

func TestGetSession_Empty(t *testing.T) {
	db := newTestDB(t)
	sess, err := db.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if sess.Initialized {
		t.Error("fresh database should report an uninitialized session")
	}
}

func TestSetAndGetSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	want := &store.Session{
		Active:   domain.LabelFilter("Finance"),
		Selected: []string{"e1", "e3"},
		Sort:     domain.SortConfig{Key: domain.SortSender, Direction: domain.Asc},
		Conditions: []domain.FilterCondition{
			{ID: "cond-1", Field: domain.FilterLabelConfidence, Operator: domain.OpGreater, Value: "80"},
		},
		Logic: domain.LogicOr,
	}
	if err := db.SetSession(ctx, want); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}

	got, err := db.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if !got.Initialized {
		t.Error("Initialized = false, want true")
	}
	if got.Active != want.Active {
		t.Errorf("Active = %+v, want %+v", got.Active, want.Active)
	}
	if len(got.Selected) != 2 || got.Selected[1] != "e3" {
		t.Errorf("Selected = %v, want [e1 e3]", got.Selected)
	}
	if got.Sort != want.Sort {
		t.Errorf("Sort = %+v, want %+v", got.Sort, want.Sort)
	}
	if len(got.Conditions) != 1 || got.Conditions[0] != want.Conditions[0] {
		t.Errorf("Conditions = %+v, want %+v", got.Conditions, want.Conditions)
	}
	if got.Logic != domain.LogicOr {
		t.Errorf("Logic = %q, want OR", got.Logic)
	}

	// Overwrite with an empty selection.
	if err := db.SetSession(ctx, &store.Session{Active: domain.FolderFilter(domain.FolderTrash)}); err != nil {
		t.Fatalf("SetSession() error: %v", err)
	}
	got, _ = db.GetSession(ctx)
	if got.Active.Folder != domain.FolderTrash || len(got.Selected) != 0 {
		t.Errorf("session = %+v, want Trash with no selection", got)
	}
	if got.Sort != (domain.SortConfig{}) || len(got.Conditions) != 0 {
		t.Errorf("session = %+v, want default sort and no conditions", got)
	}
}
