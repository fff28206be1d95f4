package model

import (
	"database/sql"
	"time"
)

// Layouts for the form-native date and time encodings used throughout
// the app. Dates are stored as "YYYY-MM-DD" and times as "HH:MM".
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DefaultEventDuration is applied when an event is marked "no end
// specified": the window runs from doors-open for this long, clamped
// to midnight so it never spills onto the next day.
const DefaultEventDuration = 4 * time.Hour

// Event is a planned get-together.
type Event struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Date           string         `json:"date"`
	DoorsOpenTime  sql.NullString `json:"doors_open_time"`
	LeaveByTime    sql.NullString `json:"leave_by_time"`
	NoEndSpecified bool           `json:"no_end_specified"`
	Description    string         `json:"description"`
	Capacity       int            `json:"capacity"`
	Dry            bool           `json:"dry"`
	ShareToken     string         `json:"share_token"`
	CreatorID      int64          `json:"creator_id"`
	CreatedAt      time.Time      `json:"created_at"`

	// CreatorName is populated by queries that join the users table.
	// It is display-only and not written back.
	CreatorName string `json:"creator_name,omitempty"`
}

// Window returns the event's concrete [start, end) window on its date.
//
// The stored schema allows three shapes, resolved as follows:
//   - an explicit leave-by time ends the window there;
//   - "no end specified" applies DefaultEventDuration after doors-open,
//     clamped to midnight;
//   - otherwise the window is open-ended from doors-open to midnight,
//     so any later unavailability that day counts as an overlap.
//
// A missing doors-open time means the event starts at 00:00. An
// unparseable date yields a zero window, which overlaps nothing.
func (e *Event) Window() (start, end time.Time) {
	day, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	midnight := day.Add(24 * time.Hour)

	start = day
	if t, ok := parseClock(e.DoorsOpenTime); ok {
		start = day.Add(t)
	}

	switch {
	case e.LeaveByTime.Valid:
		if t, ok := parseClock(e.LeaveByTime); ok {
			end = day.Add(t)
		} else {
			end = midnight
		}
	case e.NoEndSpecified:
		end = start.Add(DefaultEventDuration)
		if end.After(midnight) {
			end = midnight
		}
	default:
		end = midnight
	}
	return start, end
}

// HasCapacity reports whether the event enforces a headcount limit.
func (e *Event) HasCapacity() bool {
	return e.Capacity > 0
}

func parseClock(ns sql.NullString) (time.Duration, bool) {
	if !ns.Valid || ns.String == "" {
		return 0, false
	}
	t, err := time.Parse(TimeLayout, ns.String)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}
