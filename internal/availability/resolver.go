// Package availability determines which users are free for an event
// by checking their declared unavailability windows against the
// event's time window.
package availability

import (
	"context"
	"sort"
	"time"

	"github.com/planpals/app/internal/model"
	"github.com/planpals/app/internal/store"
)

// Resolution splits users into those free for the event window and
// those with a conflicting unavailability window. Both slices are
// ordered by display name.
type Resolution struct {
	Available []model.User
	Busy      []model.User
}

// Resolver computes availability from stored unavailability windows.
type Resolver struct {
	q *store.Queries
}

// NewResolver returns a Resolver reading from q.
func NewResolver(q *store.Queries) *Resolver {
	return &Resolver{q: q}
}

// Resolve splits users into available and busy for the event. A user
// is busy if any unavailable window on the event's date overlaps the
// event window under half-open interval comparison. Users with no
// windows that day are always available. Pure read, no side effects.
func (r *Resolver) Resolve(ctx context.Context, event *model.Event, users []model.User) (Resolution, error) {
	windows, err := r.q.ListWindowsForDate(ctx, event.Date)
	if err != nil {
		return Resolution{}, err
	}

	byUser := make(map[int64][]model.AvailabilityWindow)
	for _, w := range windows {
		if w.IsUnavailable {
			byUser[w.UserID] = append(byUser[w.UserID], w)
		}
	}

	start, end := event.Window()

	var res Resolution
	for _, u := range users {
		if anyOverlap(byUser[u.ID], start, end) {
			res.Busy = append(res.Busy, u)
		} else {
			res.Available = append(res.Available, u)
		}
	}
	sortByName(res.Available)
	sortByName(res.Busy)
	return res, nil
}

// ResolveAll is Resolve over every registered user.
func (r *Resolver) ResolveAll(ctx context.Context, event *model.Event) (Resolution, error) {
	users, err := r.q.ListUsers(ctx)
	if err != nil {
		return Resolution{}, err
	}
	return r.Resolve(ctx, event, users)
}

func anyOverlap(windows []model.AvailabilityWindow, eventStart, eventEnd time.Time) bool {
	for _, w := range windows {
		ws, we := w.Interval()
		// Half-open overlap: [ws, we) intersects [eventStart, eventEnd).
		if ws.Before(eventEnd) && we.After(eventStart) {
			return true
		}
	}
	return false
}

func sortByName(users []model.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
}
