package chat_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/jeswanthsaravanan/smartcampus/chat"
)

// Wednesday, 2025-06-11 14:30 UTC.
var testNow = time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newClassifier() *chat.Classifier {
	return chat.NewClassifier(newExtractors(), fixedClock)
}

func TestTimetableIntents(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"what's my current period?", "current"},
		{"what is my class now", "current"},
		{"which class is happening now", "current"},
		{"what is the next class", "next"},
		{"upcoming period", "next"},
		{"what is 3rd period?", "period"},
		{"period 5", "period"},
		{"third period today", "period"},
		{"what class at 10:30?", "time"},
		{"which class at 2pm", "time"},
		{"when is aiml?", "subject"},
		{"iot class", "subject"},
		{"yesterday's timetable", "yesterday"},
		{"previous day schedule", "yesterday"},
		{"tomorrow's schedule", "tomorrow"},
		{"tmrw classes", "tomorrow"},
		{"day after tomorrow", "day_after_tomorrow"},
		{"two days from now", "day_after_tomorrow"},
		{"day before yesterday", "day_before_yesterday"},
		{"two days ago", "day_before_yesterday"},
		{"monday timetable", "monday"},
		{"show friday's classes", "friday"},
		{"show today's timetable", "today"},
		{"full schedule", "today"},
		{"all classes", "today"},
		{"next", "next"},
		{"blah blah", "unknown"},
	}
	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := c.Classify(chat.ModuleTimetable, tt.message)
			if got != tt.want {
				t.Errorf("Classify(timetable, %q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestAttendanceIntents(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"day after tomorrow attendance", "future_date"},
		{"tomorrow's attendance", "future_date"},
		{"attendance for next week", "future_date"},
		{"next monday attendance", "future_date"},
		{"last week friday attendance", "last_week_day"},
		{"last monday", "last_week_day"},
		{"attendance on 20-06-2025", "future_date"},
		{"attendance on 01-06-2025", "explicit_date"},
		{"attendance on 2025-06-01", "explicit_date"},
		{"day before yesterday attendance", "day_before_yesterday"},
		{"yesterday's attendance", "yesterday"},
		{"today's attendance", "today"},
		{"monday attendance", "monday"},
		{"what is my attendance?", "status"},
		{"do I have shortage?", "status"},
	}
	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := c.Classify(chat.ModuleAttendance, tt.message)
			if got != tt.want {
				t.Errorf("Classify(attendance, %q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

// Explicit dates classify by calendar day in the clock's own zone. The
// parsed date is midnight UTC, so an instant comparison would let the
// clock's UTC offset move the future/past boundary.
func TestExplicitDateComparesCalendarDays(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+30*60)
	newYork := time.FixedZone("EST", -5*3600)
	tests := []struct {
		name    string
		now     time.Time
		message string
		want    string
	}{
		{"same day, clock ahead of UTC", time.Date(2025, 6, 2, 2, 0, 0, 0, kolkata), "attendance on 02-06-2025", "explicit_date"},
		{"next day, clock behind UTC", time.Date(2025, 6, 1, 20, 0, 0, 0, newYork), "attendance on 02-06-2025", "future_date"},
		{"past day, clock ahead of UTC", time.Date(2025, 6, 3, 2, 0, 0, 0, kolkata), "attendance on 02-06-2025", "explicit_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := chat.NewClassifier(newExtractors(), func() time.Time { return tt.now })
			if got := c.Classify(chat.ModuleAttendance, tt.message); got != tt.want {
				t.Errorf("Classify(attendance, %q) at %v = %q, want %q", tt.message, tt.now, got, tt.want)
			}
		})
	}
}

// Weekday abbreviations match whole words only, so day names buried in
// ordinary vocabulary do not steer classification.
func TestWeekdayAbbreviationsNeedWordBoundaries(t *testing.T) {
	tests := []struct {
		module  chat.Module
		message string
		want    string
	}{
		{chat.ModuleTimetable, "show my monthly timetable", "today"},
		{chat.ModuleAttendance, "attendance of my friend", "status"},
		{chat.ModuleTimetable, "mon timetable", "monday"},
		{chat.ModuleAttendance, "attendance on fri", "friday"},
	}
	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := c.Classify(tt.module, tt.message)
			if got != tt.want {
				t.Errorf("Classify(%s, %q) = %q, want %q", tt.module, tt.message, got, tt.want)
			}
		})
	}
}

func TestResultAndNotificationAlwaysAll(t *testing.T) {
	c := newClassifier()
	for _, m := range []chat.Module{chat.ModuleResult, chat.ModuleNotification} {
		for _, msg := range []string{"show results", "latest", "anything really"} {
			if got := c.Classify(m, msg); got != "all" {
				t.Errorf("Classify(%s, %q) = %q, want %q", m, msg, got, "all")
			}
		}
	}
}

// Rule order is behavior: "current period" must classify as current,
// not period, because the current rule runs first. The chain itself is
// pinned here so a reorder fails loudly.
func TestTimetableRuleOrder(t *testing.T) {
	want := []string{
		"compound_past_day", "compound_future_day", "current", "next",
		"period", "time", "subject", "yesterday", "tomorrow", "weekday",
		"today", "bare_next",
	}
	got := newClassifier().RuleNames(chat.ModuleTimetable)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("timetable rule chain = %v, want %v", got, want)
	}
}

func TestAttendanceRuleOrder(t *testing.T) {
	want := []string{
		"overmorrow", "tomorrow", "last_week_day", "next_week",
		"explicit_date", "compound_past_day", "yesterday", "today",
		"weekday", "status",
	}
	got := newClassifier().RuleNames(chat.ModuleAttendance)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("attendance rule chain = %v, want %v", got, want)
	}
}

func TestPriorityCollisions(t *testing.T) {
	tests := []struct {
		module  chat.Module
		message string
		want    string
	}{
		// "current" outranks the embedded period word.
		{chat.ModuleTimetable, "current period", "current"},
		// Compound day phrases outrank their single-word suffixes.
		{chat.ModuleTimetable, "timetable for day before yesterday", "day_before_yesterday"},
		{chat.ModuleTimetable, "day after tomorrow schedule", "day_after_tomorrow"},
		// Weekday outranks generic today words.
		{chat.ModuleTimetable, "show monday's schedule", "monday"},
		// "next friday" is a weekday mention, not bare next, because
		// the weekday rule runs before bare_next.
		{chat.ModuleTimetable, "next friday", "friday"},
		// "last friday" resolves before the weekday rule can see it.
		{chat.ModuleAttendance, "last friday attendance", "last_week_day"},
	}
	c := newClassifier()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := c.Classify(tt.module, tt.message)
			if got != tt.want {
				t.Errorf("Classify(%s, %q) = %q, want %q", tt.module, tt.message, got, tt.want)
			}
		})
	}
}
