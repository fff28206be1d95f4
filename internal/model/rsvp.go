package model

import "time"

// RSVP statuses. At most one record exists per (user, event); changing
// your answer updates the record in place.
const (
	StatusGoing = "going"
	StatusMaybe = "maybe"
	StatusNo    = "no"
)

// ValidStatus reports whether s is one of the three RSVP statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusNo:
		return true
	}
	return false
}

// RSVP records a user's attendance intention for an event.
type RSVP struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// UserName is populated by queries that join the users table.
	UserName string `json:"user_name,omitempty"`
	// EventTitle and EventDate are populated by the profile query.
	EventTitle string `json:"event_title,omitempty"`
	EventDate  string `json:"event_date,omitempty"`
}
