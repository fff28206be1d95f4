package model

import "time"

// AvailabilityWindow is a user-declared busy interval on a single day.
// Windows never span midnight.
type AvailabilityWindow struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	IsUnavailable bool   `json:"is_unavailable"`
}

// Interval returns the window's [start, end) pair on its date. An
// unparseable date or time yields a zero interval, which overlaps
// nothing.
func (w *AvailabilityWindow) Interval() (start, end time.Time) {
	day, err := time.Parse(DateLayout, w.Date)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	s, err := time.Parse(TimeLayout, w.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	e, err := time.Parse(TimeLayout, w.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	start = day.Add(time.Duration(s.Hour())*time.Hour + time.Duration(s.Minute())*time.Minute)
	end = day.Add(time.Duration(e.Hour())*time.Hour + time.Duration(e.Minute())*time.Minute)
	return start, end
}
