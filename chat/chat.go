// Package chat implements the portal's conversational query engine:
// lexical extraction, per-module intent classification, query resolution
// against a RecordStore, and reply formatting. The engine is pure with
// respect to time (injectable clock) and data (injectable store); it
// never mutates the records it reads.
package chat

import (
	"context"
	"strings"
	"time"
)

type Module string

const (
	ModuleTimetable    Module = "timetable"
	ModuleResult       Module = "result"
	ModuleAttendance   Module = "attendance"
	ModuleNotification Module = "notification"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type PayloadType string

const (
	PayloadTable PayloadType = "table"
	PayloadStats PayloadType = "stats"
	PayloadList  PayloadType = "list"
)

// StatItem is one entry of a stats payload.
type StatItem struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status,omitempty"`
}

// Payload is the structured half of a reply. Items holds []StatItem for
// stats payloads and []string for list payloads.
type Payload struct {
	Type    PayloadType `json:"type"`
	Headers []string    `json:"headers,omitempty"`
	Rows    [][]string  `json:"rows,omitempty"`
	Items   interface{} `json:"items,omitempty"`
}

func TablePayload(headers []string, rows [][]string) *Payload {
	return &Payload{Type: PayloadTable, Headers: headers, Rows: rows}
}

func StatsPayload(items []StatItem) *Payload {
	return &Payload{Type: PayloadStats, Items: items}
}

func ListPayload(items []string) *Payload {
	return &Payload{Type: PayloadList, Items: items}
}

// Reply is what the engine produces for one user utterance. IsError
// marks store/credential failures only; empty results and advisory
// replies are normal turns.
type Reply struct {
	Text    string   `json:"text"`
	Data    *Payload `json:"data,omitempty"`
	IsError bool     `json:"is_error,omitempty"`
}

// Message is one turn in a conversation session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Data      *Payload  `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"is_error,omitempty"`
}

// Slot is one timetable period as served by the record store. Period is
// a label, not a number: timetables carry rows like "Interval". Time is
// "HH:MM - HH:MM" with both ends zero-padded.
type Slot struct {
	Period  string `json:"period"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Staff   string `json:"staff"`
}

// Span splits the slot's "HH:MM - HH:MM" time into its start and end.
func (s Slot) Span() (start, end string, ok bool) {
	parts := strings.SplitN(s.Time, " - ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	start = strings.TrimSpace(parts[0])
	end = strings.TrimSpace(parts[1])
	return start, end, start != "" && end != ""
}

// NextPeriod is the store's answer to "what is my current/next class",
// computed against the store's own clock.
type NextPeriod struct {
	Period    Slot `json:"period"`
	IsCurrent bool `json:"isCurrent"`
}

type ResultRecord struct {
	SubjectCode string `json:"subjectCode"`
	SubjectName string `json:"subjectName"`
	Marks       int    `json:"marks"`
	MaxMarks    int    `json:"maxMarks"`
	Grade       string `json:"grade"`
	Status      string `json:"status"`
}

type ResultSummary struct {
	Results []ResultRecord `json:"results"`
	Average float64        `json:"average"`
}

type SubjectAttendance struct {
	Subject    string  `json:"subject"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type AttendanceSummary struct {
	Attendance        []SubjectAttendance `json:"attendance"`
	OverallPercentage float64             `json:"overallPercentage"`
	ShortageSubjects  []string            `json:"shortageSubjects,omitempty"`
}

type DayEntry struct {
	Period  string `json:"period"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
	Time    string `json:"time"`
}

type DayAttendance struct {
	DayOfWeek    string     `json:"dayOfWeek"`
	Date         string     `json:"date"`
	Attended     int        `json:"attended"`
	TotalClasses int        `json:"totalClasses"`
	Percentage   float64    `json:"percentage"`
	Records      []DayEntry `json:"records"`
}

type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// RecordStore is the engine's read-only view of the portal's records.
// The day argument is the raw selector ("today", "monday", "last week
// friday", "14-03-2025"); selector semantics belong to the store side.
// NextPeriod returns (nil, nil) when no class remains today. Every
// method may fail with a single error carrying a human-readable
// message; the engine turns that into an error turn.
type RecordStore interface {
	Timetable(ctx context.Context, day string) ([]Slot, error)
	NextPeriod(ctx context.Context) (*NextPeriod, error)
	Results(ctx context.Context) (*ResultSummary, error)
	AttendanceSummary(ctx context.Context) (*AttendanceSummary, error)
	DailyAttendance(ctx context.Context, day string) (*DayAttendance, error)
	Notifications(ctx context.Context) ([]Notification, error)
}

// AttendanceStatus classifies a day's attendance for rendering: "ok" at
// or above the shortage cutoff, "low" below it, "empty" when no classes
// were held (possible holiday).
func AttendanceStatus(percentage float64, totalClasses int) string {
	if totalClasses == 0 {
		return "empty"
	}
	if percentage >= lowAttendanceCutoff {
		return "ok"
	}
	return "low"
}

// Attendance shortage cutoff in percent.
const lowAttendanceCutoff = 75
