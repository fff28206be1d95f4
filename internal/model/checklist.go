package model

import "database/sql"

// ChecklistItem is one named thing to bring to an event. Items belong
// to exactly one event and are deleted with it.
type ChecklistItem struct {
	ID            int64         `json:"id"`
	EventID       int64         `json:"event_id"`
	Label         string        `json:"label"`
	IsChecked     bool          `json:"is_checked"`
	AddedByUserID sql.NullInt64 `json:"added_by_user_id"`
}
