// Package rsvp records attendance intentions, enforcing at most one
// record per (user, event) and event capacity limits.
package rsvp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/store"
)

var (
	// ErrInvalidStatus means the status is not going, maybe, or no.
	ErrInvalidStatus = errors.New("rsvp: invalid status")
	// ErrEventFull means the event's going-count has reached capacity.
	ErrEventFull = errors.New("rsvp: event is full")
)

// Counts holds per-status RSVP totals for an event, computed on
// demand so they reflect the database at call time.
type Counts struct {
	Going int
	Maybe int
	No    int
}

// Manager mutates RSVP state. All writes for one call happen in a
// single immediate transaction, so the capacity check and the upsert
// see the same going-count.
type Manager struct {
	db *sql.DB
}

// NewManager returns a Manager writing through db.
func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// SetStatus records or updates the user's RSVP for the event.
//
// Entering "going" on an event with capacity fails with ErrEventFull
// once the going-count has reached capacity, unless the user already
// holds "going" (re-confirming your own slot is never blocked). The
// UNIQUE(user_id, event_id) constraint backs the upsert, so a raced
// duplicate insert lands as an in-place update rather than a second
// record.
func (m *Manager) SetStatus(ctx context.Context, event *model.Event, userID int64, status string) (*model.RSVP, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning rsvp transaction: %w", err)
	}
	defer tx.Rollback()

	q := store.New(tx)

	if status == model.StatusGoing && event.HasCapacity() {
		holdsGoing := false
		existing, err := q.GetRSVP(ctx, userID, event.ID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			holdsGoing = existing.Status == model.StatusGoing
		}

		if !holdsGoing {
			going, err := q.CountGoing(ctx, event.ID)
			if err != nil {
				return nil, err
			}
			if going >= event.Capacity {
				return nil, ErrEventFull
			}
		}
	}

	err = q.UpsertRSVP(ctx, store.UpsertRSVPParams{
		EventID: event.ID,
		UserID:  userID,
		Status:  status,
	})
	if err != nil {
		// Foreign key violations mean the event or user row is gone.
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	updated, err := q.GetRSVP(ctx, userID, event.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rsvp transaction: %w", err)
	}
	return updated, nil
}

// CountsForEvent aggregates the event's RSVPs by status.
func (m *Manager) CountsForEvent(ctx context.Context, eventID int64) (Counts, error) {
	byStatus, err := store.New(m.db).CountRSVPsByStatus(ctx, eventID)
	if err != nil {
		return Counts{}, err
	}
	return Counts{
		Going: byStatus[model.StatusGoing],
		Maybe: byStatus[model.StatusMaybe],
		No:    byStatus[model.StatusNo],
	}, nil
}
