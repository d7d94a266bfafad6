// Package store serves the chat engine's record reads from Postgres
// with an optional redis read-through cache. Selector strings coming
// from the engine ("today", "monday", "last week friday", a calendar
// date) are resolved here, against the server clock.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeswanthsaravanan/smartcampus/chat"
	"github.com/jeswanthsaravanan/smartcampus/database"
	"github.com/jeswanthsaravanan/smartcampus/dates"
)

// IdentityProvider yields the student the current request acts for.
// Failures are reported to the engine the same way a database outage
// is.
type IdentityProvider interface {
	StudentID(ctx context.Context) (string, error)
}

// StaticIdentity binds a store view to one fixed student.
type StaticIdentity string

func (s StaticIdentity) StudentID(context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("not authenticated")
	}
	return string(s), nil
}

const passMark = 40

// Adapter implements chat.RecordStore over the database repositories.
type Adapter struct {
	timetable *database.TimetableRepository
	results   *database.ResultRepository
	summary   *database.AttendanceRepository
	daily     *database.DailyAttendanceRepository
	notes     *database.NotificationRepository

	resolver *dates.Resolver
	clock    dates.Clock
	cache    *Cache
	identity IdentityProvider
}

// Repos bundles the repositories the adapter reads from.
type Repos struct {
	Timetable  *database.TimetableRepository
	Results    *database.ResultRepository
	Attendance *database.AttendanceRepository
	Daily      *database.DailyAttendanceRepository
	Notes      *database.NotificationRepository
}

func NewAdapter(repos Repos, identity IdentityProvider, cache *Cache, clock dates.Clock) *Adapter {
	if clock == nil {
		clock = time.Now
	}
	if identity == nil {
		identity = StaticIdentity("")
	}
	return &Adapter{
		timetable: repos.Timetable,
		results:   repos.Results,
		summary:   repos.Attendance,
		daily:     repos.Daily,
		notes:     repos.Notes,
		resolver:  dates.NewResolver(clock),
		clock:     clock,
		cache:     cache,
		identity:  identity,
	}
}

// ForStudent returns a view of the same adapter bound to one student.
// Used by the chat session registry, where identity is fixed at session
// start.
func (a *Adapter) ForStudent(studentID string) *Adapter {
	bound := *a
	bound.identity = StaticIdentity(studentID)
	return &bound
}

func (a *Adapter) Timetable(ctx context.Context, day string) ([]chat.Slot, error) {
	studentID, err := a.identity.StudentID(ctx)
	if err != nil {
		return nil, err
	}
	date := a.resolver.ResolveScheduleDay(day)
	dayName := date.Weekday().String()

	key := "timetable:" + studentID + ":" + dayName
	if cached := a.cache.Get(ctx, key); cached != "" {
		var slots []chat.Slot
		if json.Unmarshal([]byte(cached), &slots) == nil {
			return slots, nil
		}
	}

	entries, err := a.timetable.ListByStudentAndDay(studentID, dayName)
	if err != nil {
		return nil, fmt.Errorf("could not load timetable: %w", err)
	}
	slots := make([]chat.Slot, len(entries))
	for i, e := range entries {
		slots[i] = toSlot(e)
	}
	if encoded, err := json.Marshal(slots); err == nil {
		a.cache.Set(ctx, key, string(encoded))
	}
	return slots, nil
}

// NextPeriod walks today's timetable against the server clock. The
// slot covering the current minute wins; otherwise the first slot
// starting later today. A nil result with nil error means the day is
// over.
func (a *Adapter) NextPeriod(ctx context.Context) (*chat.NextPeriod, error) {
	now := a.clock()
	slots, err := a.Timetable(ctx, "today")
	if err != nil {
		return nil, err
	}
	clock := now.Format("15:04")
	for _, s := range slots {
		start, end, ok := s.Span()
		if !ok {
			continue
		}
		if clock >= start && clock < end {
			return &chat.NextPeriod{Period: s, IsCurrent: true}, nil
		}
		if start > clock {
			return &chat.NextPeriod{Period: s, IsCurrent: false}, nil
		}
	}
	return nil, nil
}

// Week loads the student's full timetable in one query, grouped by day
// name.
func (a *Adapter) Week(ctx context.Context) (map[string][]chat.Slot, error) {
	studentID, err := a.identity.StudentID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := a.timetable.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("could not load timetable: %w", err)
	}
	week := make(map[string][]chat.Slot)
	for _, e := range entries {
		week[e.DayOfWeek] = append(week[e.DayOfWeek], toSlot(e))
	}
	return week, nil
}

func (a *Adapter) Results(ctx context.Context) (*chat.ResultSummary, error) {
	studentID, err := a.identity.StudentID(ctx)
	if err != nil {
		return nil, err
	}
	records, err := a.results.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("could not load results: %w", err)
	}
	summary := &chat.ResultSummary{Results: make([]chat.ResultRecord, len(records))}
	total := 0
	for i, r := range records {
		status := "Pass"
		if r.Marks < passMark {
			status = "Fail"
		}
		summary.Results[i] = chat.ResultRecord{
			SubjectCode: r.SubjectCode,
			SubjectName: r.SubjectName,
			Marks:       r.Marks,
			MaxMarks:    r.MaxMarks,
			Grade:       r.Grade,
			Status:      status,
		}
		total += r.Marks
	}
	if len(records) > 0 {
		summary.Average = round1(float64(total) / float64(len(records)))
	}
	return summary, nil
}

func (a *Adapter) AttendanceSummary(ctx context.Context) (*chat.AttendanceSummary, error) {
	studentID, err := a.identity.StudentID(ctx)
	if err != nil {
		return nil, err
	}
	records, err := a.summary.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("could not load attendance: %w", err)
	}
	summary := &chat.AttendanceSummary{Attendance: make([]chat.SubjectAttendance, len(records))}
	present, total := 0, 0
	for i, r := range records {
		pct := round1(r.Percentage())
		summary.Attendance[i] = chat.SubjectAttendance{
			Subject:    r.Subject,
			Present:    r.PresentDays,
			Total:      r.TotalDays,
			Percentage: pct,
		}
		if r.TotalDays > 0 && pct < 75 {
			summary.ShortageSubjects = append(summary.ShortageSubjects, r.Subject)
		}
		present += r.PresentDays
		total += r.TotalDays
	}
	if total > 0 {
		summary.OverallPercentage = round1(float64(present) * 100 / float64(total))
	}
	return summary, nil
}

func (a *Adapter) DailyAttendance(ctx context.Context, day string) (*chat.DayAttendance, error) {
	studentID, err := a.identity.StudentID(ctx)
	if err != nil {
		return nil, err
	}
	date := a.resolveAttendanceDate(day)
	entries, err := a.daily.ListByStudentAndDate(studentID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("could not load attendance: %w", err)
	}
	out := &chat.DayAttendance{
		DayOfWeek:    date.Weekday().String(),
		Date:         date.Format("2006-01-02"),
		TotalClasses: len(entries),
		Records:      make([]chat.DayEntry, len(entries)),
	}
	for i, e := range entries {
		out.Records[i] = chat.DayEntry{
			Period:  e.PeriodLabel,
			Subject: e.Subject,
			Status:  e.Status,
			Time:    e.StartTime,
		}
		if e.Status == "Present" {
			out.Attended++
		}
	}
	if out.TotalClasses > 0 {
		out.Percentage = round1(float64(out.Attended) * 100 / float64(out.TotalClasses))
	}
	return out, nil
}

func (a *Adapter) Notifications(ctx context.Context) ([]chat.Notification, error) {
	key := "notifications:active"
	if cached := a.cache.Get(ctx, key); cached != "" {
		var notes []chat.Notification
		if json.Unmarshal([]byte(cached), &notes) == nil {
			return notes, nil
		}
	}
	records, err := a.notes.ListActive()
	if err != nil {
		return nil, fmt.Errorf("could not load notifications: %w", err)
	}
	notes := make([]chat.Notification, len(records))
	for i, n := range records {
		notes[i] = chat.Notification{
			Title:   n.Title,
			Message: n.Message,
			Date:    n.CreatedAt.Format("02 Jan 2006"),
		}
	}
	if encoded, err := json.Marshal(notes); err == nil {
		a.cache.Set(ctx, key, string(encoded))
	}
	return notes, nil
}

func (a *Adapter) resolveAttendanceDate(day string) time.Time {
	if d, err := time.Parse("2006-01-02", day); err == nil {
		return d
	}
	return a.resolver.ResolveAttendanceDay(day)
}

func toSlot(e database.TimetableEntry) chat.Slot {
	return chat.Slot{
		Period:  e.PeriodLabel,
		Time:    e.StartTime + " - " + e.EndTime,
		Subject: e.Subject,
		Staff:   e.Staff,
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
