package dates

import (
	"testing"
	"time"
)

// Wednesday, 11 June 2025.
func fixedClock() time.Time {
	return time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseExplicitDate(t *testing.T) {
	tests := []struct {
		query string
		want  time.Time
		ok    bool
	}{
		{"attendance on 14-03-2025 please", date(2025, 3, 14), true},
		{"14/03/2025", date(2025, 3, 14), true},
		{"show 2025-03-14 records", date(2025, 3, 14), true},
		{"32-01-2025 schedule", time.Time{}, false},
		{"14-13-2025", time.Time{}, false},
		{"no date here", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseExplicitDate(tt.query)
		if ok != tt.ok {
			t.Errorf("ParseExplicitDate(%q) ok = %v, want %v", tt.query, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseExplicitDate(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestResolveScheduleDay(t *testing.T) {
	r := NewResolver(fixedClock)

	tests := []struct {
		query string
		want  time.Time
	}{
		{"today", date(2025, 6, 11)},
		{"tomorrow", date(2025, 6, 12)},
		{"day after tomorrow", date(2025, 6, 13)},
		{"yesterday", date(2025, 6, 10)},
		{"day before yesterday", date(2025, 6, 9)},
		// Timetable weekdays resolve forward: next Monday from Wed 11th.
		{"monday", date(2025, 6, 16)},
		// Today's weekday resolves to today.
		{"wednesday", date(2025, 6, 11)},
		{"friday", date(2025, 6, 13)},
		{"14-03-2025", date(2025, 3, 14)},
		{"gibberish", date(2025, 6, 11)},
	}

	for _, tt := range tests {
		if got := r.ResolveScheduleDay(tt.query); !got.Equal(tt.want) {
			t.Errorf("ResolveScheduleDay(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestResolveAttendanceDay(t *testing.T) {
	r := NewResolver(fixedClock)

	tests := []struct {
		query string
		want  time.Time
	}{
		{"today", date(2025, 6, 11)},
		{"yesterday", date(2025, 6, 10)},
		{"day before yesterday", date(2025, 6, 9)},
		// Attendance weekdays resolve backward: most recent Monday.
		{"monday", date(2025, 6, 9)},
		{"tuesday", date(2025, 6, 10)},
		// Future weekday relative to Wed goes back a week.
		{"friday", date(2025, 6, 6)},
		{"wednesday", date(2025, 6, 11)},
		// "last monday" forces the previous week's occurrence.
		{"last monday", date(2025, 6, 2)},
		{"last week friday", date(2025, 5, 30)},
	}

	for _, tt := range tests {
		if got := r.ResolveAttendanceDay(tt.query); !got.Equal(tt.want) {
			t.Errorf("ResolveAttendanceDay(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		query string
		want  time.Weekday
		ok    bool
	}{
		{"monday timetable", time.Monday, true},
		{"on saturday", time.Saturday, true},
		// Abbreviations match as whole words only.
		{"mon timetable", time.Monday, true},
		{"attendance on fri", time.Friday, true},
		{"show my monthly timetable", time.Sunday, false},
		{"attendance of my friend", time.Sunday, false},
		{"saturated schedule", time.Sunday, false},
		{"nothing dated", time.Sunday, false},
	}

	for _, tt := range tests {
		got, ok := Weekday(tt.query)
		if ok != tt.ok {
			t.Errorf("Weekday(%q) ok = %v, want %v", tt.query, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("Weekday(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestIsFutureQuery(t *testing.T) {
	r := NewResolver(fixedClock)

	tests := []struct {
		query string
		want  bool
	}{
		{"tomorrow", true},
		{"day after tomorrow", true},
		{"next week", true},
		{"next friday", true},
		{"last friday", false},
		{"last week monday", false},
		{"yesterday", false},
		{"today", false},
		{"20-06-2025", true},
		{"01-06-2025", false},
	}

	for _, tt := range tests {
		if got := r.IsFutureQuery(tt.query); got != tt.want {
			t.Errorf("IsFutureQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
