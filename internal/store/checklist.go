package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/planpals/app/internal/model"
)

const itemColumns = "id, event_id, label, is_checked, added_by_user_id"

// InsertItemParams holds the fields for a new checklist item.
type InsertItemParams struct {
	EventID       int64
	Label         string
	AddedByUserID sql.NullInt64
}

// InsertItem adds one checklist item to an event.
func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (*model.ChecklistItem, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO checklist_items (event_id, label, added_by_user_id) VALUES (?, ?, ?)",
		arg.EventID, arg.Label, arg.AddedByUserID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q.GetItemByID(ctx, id)
}

// GetItemByID retrieves a checklist item by id.
func (q *Queries) GetItemByID(ctx context.Context, id int64) (*model.ChecklistItem, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM checklist_items WHERE id = ?", id)

	item := &model.ChecklistItem{}
	err := row.Scan(&item.ID, &item.EventID, &item.Label, &item.IsChecked, &item.AddedByUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItemsForEvent returns an event's checklist in insertion order.
func (q *Queries) ListItemsForEvent(ctx context.Context, eventID int64) ([]model.ChecklistItem, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM checklist_items WHERE event_id = ? ORDER BY id ASC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		var item model.ChecklistItem
		if err := rows.Scan(&item.ID, &item.EventID, &item.Label, &item.IsChecked, &item.AddedByUserID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FlipItemChecked inverts an item's checked flag and returns the
// updated row. It is a toggle, not a set: each call flips state.
func (q *Queries) FlipItemChecked(ctx context.Context, id int64) (*model.ChecklistItem, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE checklist_items SET is_checked = NOT is_checked WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return q.GetItemByID(ctx, id)
}

// DeleteItemsForEvent clears an event's checklist, used by the edit
// path before re-seeding.
func (q *Queries) DeleteItemsForEvent(ctx context.Context, eventID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM checklist_items WHERE event_id = ?", eventID)
	return err
}
