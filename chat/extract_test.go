package chat_test

import (
	"testing"

	"github.com/jeswanthsaravanan/smartcampus/chat"
)

func newExtractors() *chat.Extractors {
	return chat.NewExtractors(chat.DefaultConfig().Aliases)
}

func TestPeriodExtraction(t *testing.T) {
	tests := []struct {
		message string
		want    int
		ok      bool
	}{
		{"what is 3rd period", 3, true},
		{"1st period", 1, true},
		{"period 5", 5, true},
		{"period no 2", 2, true},
		{"period no. 4", 4, true},
		{"5th", 5, true},
		{"third period", 3, true},
		{"first class", 1, true},
		{"seventh period", 7, true},
		{"show my timetable", 0, false},
		{"class at 10:30", 0, false},
	}
	ex := newExtractors()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ex.Period(tt.message)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Period(%q) = (%d, %v), want (%d, %v)", tt.message, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClockTimeExtraction(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"what class at 10:30", "10:30", true},
		{"class at 10.30", "10:30", true},
		{"what class at 10:30 am", "10:30", true},
		{"class at 2:15 pm", "14:15", true},
		{"what about 12:00 am", "00:00", true},
		{"class at 2 pm", "14:00", true},
		{"class at 2pm", "14:00", true},
		{"class at 12 am", "00:00", true},
		{"what class at 14:00", "14:00", true},
		{"meet at 9:05", "09:05", true},
		{"class at 25:00", "", false},
		{"class at 10:75", "", false},
		{"period 2", "", false},
	}
	ex := newExtractors()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ex.ClockTime(tt.message)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ClockTime(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSubjectExtraction(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"when is aiml", "CS3491 AIML", true},
		{"when is the aiml lab", "CS3491 AIML LAB", true},
		{"iot class today", "ET3491 FIOT", true},
		{"fiot lab when", "ET3491 FIOT LAB", true},
		{"machine learning class", "CS3491 AIML", true},
		{"remote sensing period", "CEC348 RS", true},
		{"library hour", "LIB", true},
		{"counselling session", "Mini project/ Counseling", true},
		{"show my timetable", "", false},
	}
	ex := newExtractors()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ex.Subject(tt.message)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Subject(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLongerAliasWins(t *testing.T) {
	ex := newExtractors()
	// "iot lab" contains both "iot" and "iot lab"; the longer alias
	// must resolve first.
	got, ok := ex.Subject("when is the iot lab session")
	if !ok || got != "ET3491 FIOT LAB" {
		t.Fatalf("Subject = (%q, %v), want (%q, true)", got, ok, "ET3491 FIOT LAB")
	}
}
