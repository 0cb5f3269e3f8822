package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lu-zhengda/triagemail/internal/domain"
	"github.com/lu-zhengda/triagemail/internal/store"
)

type sessionRow struct {
	Folder        string `db:"folder"`
	Label         string `db:"label"`
	Selected      string `db:"selected"`
	SortKey       string `db:"sort_key"`
	SortDirection string `db:"sort_direction"`
	Conditions    string `db:"conditions"`
	Logic         string `db:"logic"`
}

// conditionJSON is the stored form of a filter condition.
type conditionJSON struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// GetSession retrieves the saved view state.
// If none exists, it returns an uninitialized Session.
func (s *DB) GetSession(ctx context.Context) (*store.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT folder, label, selected, sort_key, sort_direction, conditions, logic
		FROM session WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return &store.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess := &store.Session{
		Initialized: true,
		Active:      domain.ActiveFilter{Folder: domain.Folder(row.Folder), Label: row.Label},
		Sort:        domain.SortConfig{Key: domain.SortKey(row.SortKey), Direction: domain.SortDirection(row.SortDirection)},
		Logic:       domain.FilterLogic(row.Logic),
	}
	if err := json.Unmarshal([]byte(row.Selected), &sess.Selected); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}

	var conds []conditionJSON
	if err := json.Unmarshal([]byte(row.Conditions), &conds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
	}
	for _, c := range conds {
		sess.Conditions = append(sess.Conditions, domain.FilterCondition{
			ID:       c.ID,
			Field:    domain.FilterField(c.Field),
			Operator: domain.FilterOperator(c.Operator),
			Value:    c.Value,
		})
	}
	return sess, nil
}

// SetSession inserts or updates the saved view state.
func (s *DB) SetSession(ctx context.Context, sess *store.Session) error {
	selected := sess.Selected
	if selected == nil {
		selected = []string{}
	}
	selData, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	conds := make([]conditionJSON, 0, len(sess.Conditions))
	for _, c := range sess.Conditions {
		conds = append(conds, conditionJSON{
			ID:       c.ID,
			Field:    string(c.Field),
			Operator: string(c.Operator),
			Value:    c.Value,
		})
	}
	condData, err := json.Marshal(conds)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}

	row := sessionRow{
		Folder:        string(sess.Active.Folder),
		Label:         sess.Active.Label,
		Selected:      string(selData),
		SortKey:       string(sess.Sort.Key),
		SortDirection: string(sess.Sort.Direction),
		Conditions:    string(condData),
		Logic:         string(sess.Logic),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO session (id, folder, label, selected, sort_key, sort_direction, conditions, logic)
		VALUES (1, :folder, :label, :selected, :sort_key, :sort_direction, :conditions, :logic)
		ON CONFLICT(id) DO UPDATE SET
			folder         = excluded.folder,
			label          = excluded.label,
			selected       = excluded.selected,
			sort_key       = excluded.sort_key,
			sort_direction = excluded.sort_direction,
			conditions     = excluded.conditions,
			logic          = excluded.logic`,
		row,
	)
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

var _ store.Store = (*DB)(nil)
