// Package dates resolves free-text day selectors ("today", "tomorrow",
// "last monday", "14-03-2025") to calendar dates. Timetable and
// attendance disagree on weekday semantics: a timetable is recurring, so
// weekday names resolve forward to the next occurrence; attendance is
// historical, so weekday names resolve back to the most recent past
// occurrence.
package dates

import (
	"strings"
	"time"
)

// Clock supplies the current time. Injectable so resolution is
// deterministic under test.
type Clock func() time.Time

type Resolver struct {
	Now Clock
}

func NewResolver(clock Clock) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{Now: clock}
}

var explicitFormats = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
}

var weekdays = []struct {
	name string
	abbr string
	day  time.Weekday
}{
	{"monday", "mon", time.Monday},
	{"tuesday", "tue", time.Tuesday},
	{"wednesday", "wed", time.Wednesday},
	{"thursday", "thu", time.Thursday},
	{"friday", "fri", time.Friday},
	{"saturday", "sat", time.Saturday},
	{"sunday", "sun", time.Sunday},
}

// ParseExplicitDate scans the query for a DD-MM-YYYY, DD/MM/YYYY or
// YYYY-MM-DD token. Invalid calendar dates (day 32, month 13) are
// rejected, not clamped.
func ParseExplicitDate(query string) (time.Time, bool) {
	for _, token := range strings.Fields(query) {
		for _, layout := range explicitFormats {
			d, err := time.Parse(layout, token)
			if err != nil {
				continue
			}
			return d, true
		}
	}
	return time.Time{}, false
}

// Weekday returns the weekday named in the query, if any. Full names
// are checked before abbreviations, and abbreviations only match as
// whole words: "mon" in "monthly" and "fri" in "friend" are not days.
func Weekday(query string) (time.Weekday, bool) {
	lower := strings.ToLower(query)
	for _, w := range weekdays {
		if strings.Contains(lower, w.name) {
			return w.day, true
		}
	}
	for _, w := range weekdays {
		if containsWord(lower, w.abbr) {
			return w.day, true
		}
	}
	return time.Sunday, false
}

func containsWord(s, word string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if field == word {
			return true
		}
	}
	return false
}

// ResolveScheduleDay resolves a selector for timetable lookups. Weekday
// names resolve to the NEXT occurrence (today counts).
func (r *Resolver) ResolveScheduleDay(query string) time.Time {
	now := today(r.Now())
	lower := strings.ToLower(strings.TrimSpace(query))

	if d, ok := ParseExplicitDate(lower); ok {
		return d
	}

	switch {
	case strings.Contains(lower, "day before yesterday"), strings.Contains(lower, "two days ago"):
		return now.AddDate(0, 0, -2)
	case strings.Contains(lower, "yesterday"):
		return now.AddDate(0, 0, -1)
	case strings.Contains(lower, "day after tomorrow"), strings.Contains(lower, "next tomorrow"), strings.Contains(lower, "overmorrow"):
		return now.AddDate(0, 0, 2)
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1)
	case strings.Contains(lower, "today"):
		return now
	}

	if target, ok := Weekday(lower); ok {
		return nextWeekday(now, target)
	}

	return now
}

// ResolveAttendanceDay resolves a selector for attendance lookups.
// Weekday names resolve to the MOST RECENT PAST occurrence; "last
// <weekday>" and "last week" force the previous week's occurrence.
func (r *Resolver) ResolveAttendanceDay(query string) time.Time {
	now := today(r.Now())
	lower := strings.ToLower(strings.TrimSpace(query))

	if d, ok := ParseExplicitDate(lower); ok {
		return d
	}

	switch {
	case strings.Contains(lower, "day before yesterday"), strings.Contains(lower, "two days ago"):
		return now.AddDate(0, 0, -2)
	case strings.Contains(lower, "yesterday"):
		return now.AddDate(0, 0, -1)
	case strings.Contains(lower, "today"):
		return now
	}

	if target, ok := Weekday(lower); ok {
		if strings.Contains(lower, "last week") || strings.Contains(lower, "last ") {
			return lastWeekday(now, target)
		}
		return pastWeekday(now, target)
	}

	return now
}

// IsFutureQuery reports whether the selector refers to a future date
// concept. "last ..." phrasings are past regardless of what else the
// query mentions.
func (r *Resolver) IsFutureQuery(query string) bool {
	lower := strings.ToLower(strings.TrimSpace(query))

	if strings.Contains(lower, "last week") || strings.Contains(lower, "last ") {
		return false
	}

	if strings.Contains(lower, "tomorrow") ||
		strings.Contains(lower, "overmorrow") ||
		strings.Contains(lower, "next week") ||
		strings.Contains(lower, "two days from now") {
		return true
	}

	if _, ok := Weekday(lower); ok && strings.Contains(lower, "next") {
		return true
	}

	if d, ok := ParseExplicitDate(lower); ok {
		return r.IsFuture(d)
	}

	return false
}

// IsFuture reports whether the date falls strictly after today.
func (r *Resolver) IsFuture(d time.Time) bool {
	return today(d).After(today(r.Now()))
}

func today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextWeekday(now time.Time, target time.Weekday) time.Time {
	diff := int(target) - int(now.Weekday())
	if diff < 0 {
		diff += 7
	}
	return now.AddDate(0, 0, diff)
}

func pastWeekday(now time.Time, target time.Weekday) time.Time {
	diff := int(now.Weekday()) - int(target)
	if diff <= 0 && now.Weekday() != target {
		diff += 7
	}
	return now.AddDate(0, 0, -diff)
}

func lastWeekday(now time.Time, target time.Weekday) time.Time {
	recent := pastWeekday(now, target)
	if !recent.Before(now.AddDate(0, 0, -6)) {
		return recent.AddDate(0, 0, -7)
	}
	return recent
}
