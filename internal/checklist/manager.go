// Package checklist maintains each event's bring list: seeding from
// the default catalog plus custom entries, and creator-only toggling.
package checklist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/store"
)

// ErrForbidden means the acting user is not the event's creator.
var ErrForbidden = errors.New("checklist: only the event creator may do that")

// DefaultCatalog is the stock bring list offered on the create form.
var DefaultCatalog = []string{
	"Chairs", "Snacks", "Water", "Ice", "Cups", "Plates", "Napkins", "Games",
	"Music speaker", "Cooled drinks", "Dessert", "Sunscreen", "Blankets",
	"Paper towels", "Trash bags",
}

// blockedForDry are labels stripped from dry events. Matching is
// case-sensitive and exact.
var blockedForDry = map[string]bool{
	"Alcohol": true,
	"Weed":    true,
	"Beer":    true,
	"Wine":    true,
	"Liquor":  true,
}

// FormCatalog is the catalog as offered on the create/edit forms,
// including the labels that dry events will filter back out.
func FormCatalog() []string {
	return append(append([]string{}, DefaultCatalog...), "Alcohol", "Weed")
}

// Manager owns an event's checklist items.
type Manager struct {
	db *sql.DB
	q  *store.Queries
}

// NewManager returns a Manager writing through db.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db, q: store.New(db)}
}

// Seed creates the event's checklist from the chosen preset labels
// plus the free-text custom field (comma- or newline-delimited).
// Exact-string duplicates are dropped, first occurrence wins, and dry
// events lose blocked labels before anything is inserted.
func (m *Manager) Seed(ctx context.Context, event *model.Event, preset []string, custom string, addedBy int64) ([]model.ChecklistItem, error) {
	return m.seed(ctx, m.q, event, preset, custom, addedBy)
}

// Reseed replaces the event's checklist, used by the edit path when
// bring-list fields are resubmitted. Delete and re-insert happen in
// one transaction.
func (m *Manager) Reseed(ctx context.Context, event *model.Event, preset []string, custom string, addedBy int64) ([]model.ChecklistItem, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning checklist transaction: %w", err)
	}
	defer tx.Rollback()

	q := m.q.WithTx(tx)
	if err := q.DeleteItemsForEvent(ctx, event.ID); err != nil {
		return nil, err
	}
	items, err := m.seed(ctx, q, event, preset, custom, addedBy)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checklist transaction: %w", err)
	}
	return items, nil
}

// Toggle flips an item's checked flag. Only the event's creator may
// toggle; anyone else gets ErrForbidden and the item is untouched.
func (m *Manager) Toggle(ctx context.Context, itemID int64, actor *model.User) (*model.ChecklistItem, error) {
	item, err := m.q.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	event, err := m.q.GetEventByID(ctx, item.EventID)
	if err != nil {
		return nil, err
	}
	if actor == nil || event.CreatorID != actor.ID {
		return nil, ErrForbidden
	}
	return m.q.FlipItemChecked(ctx, itemID)
}

func (m *Manager) seed(ctx context.Context, q *store.Queries, event *model.Event, preset []string, custom string, addedBy int64) ([]model.ChecklistItem, error) {
	labels := MergeLabels(preset, custom)

	var items []model.ChecklistItem
	for _, label := range labels {
		if event.Dry && blockedForDry[label] {
			continue
		}
		item, err := q.InsertItem(ctx, store.InsertItemParams{
			EventID:       event.ID,
			Label:         label,
			AddedByUserID: sql.NullInt64{Int64: addedBy, Valid: addedBy != 0},
		})
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// MergeLabels combines preset labels with the free-text custom field,
// trimming entries and dropping exact-string duplicates while keeping
// first-seen order. Custom text splits on commas and newlines.
func MergeLabels(preset []string, custom string) []string {
	var merged []string
	seen := make(map[string]bool)

	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			return
		}
		seen[label] = true
		merged = append(merged, label)
	}

	for _, label := range preset {
		add(label)
	}
	for _, line := range strings.Split(custom, "\n") {
		for _, label := range strings.Split(line, ",") {
			add(label)
		}
	}
	return merged
}
