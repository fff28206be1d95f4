package model

import (
	"database/sql"
	"testing"
	"time"
)

func clock(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func TestEventWindow(t *testing.T) {
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		event      Event
		start, end time.Time
	}{
		{
			name:  "explicit start and end",
			event: Event{Date: "2026-09-12", DoorsOpenTime: clock("14:00"), LeaveByTime: clock("18:30")},
			start: day.Add(14 * time.Hour),
			end:   day.Add(18*time.Hour + 30*time.Minute),
		},
		{
			name:  "no end specified applies default duration",
			event: Event{Date: "2026-09-12", DoorsOpenTime: clock("14:00"), NoEndSpecified: true},
			start: day.Add(14 * time.Hour),
			end:   day.Add(18 * time.Hour),
		},
		{
			name:  "default duration clamps at midnight",
			event: Event{Date: "2026-09-12", DoorsOpenTime: clock("22:00"), NoEndSpecified: true},
			start: day.Add(22 * time.Hour),
			end:   day.Add(24 * time.Hour),
		},
		{
			name:  "no end info means open-ended to midnight",
			event: Event{Date: "2026-09-12", DoorsOpenTime: clock("14:00")},
			start: day.Add(14 * time.Hour),
			end:   day.Add(24 * time.Hour),
		},
		{
			name:  "no times at all means the whole day",
			event: Event{Date: "2026-09-12"},
			start: day,
			end:   day.Add(24 * time.Hour),
		},
		{
			name:  "bad date yields a zero window",
			event: Event{Date: "not-a-date", DoorsOpenTime: clock("14:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.event.Window()
			if !start.Equal(tt.start) {
				t.Errorf("start = %v, want %v", start, tt.start)
			}
			if !end.Equal(tt.end) {
				t.Errorf("end = %v, want %v", end, tt.end)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusGoing, StatusMaybe, StatusNo} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "attending", "GOING", "yes"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}
