package store

import (
	"context"
	"strings"
	"sync"

	"github.com/jeswanthsaravanan/smartcampus/chat"
)

// Memory is an in-memory chat.RecordStore with fixture data, used in
// tests and local development without Postgres.
type Memory struct {
	mu sync.RWMutex

	// Days maps lowercase weekday names to that day's slots.
	Days map[string][]chat.Slot
	// Daily maps "2006-01-02" dates to attendance days.
	Daily map[string]*chat.DayAttendance
	// Resolve maps non-date selectors ("today", "yesterday", "last
	// week friday attendance") to their "2006-01-02" key.
	Resolve map[string]string

	Next    *chat.NextPeriod
	Summary *chat.AttendanceSummary
	Marks   *chat.ResultSummary
	Notes   []chat.Notification

	// Fail, when set, makes every method return this error.
	Fail error

	// Today selects which entry of Days answers "today".
	Today string
}

func NewMemory() *Memory {
	return &Memory{
		Days:    map[string][]chat.Slot{},
		Daily:   map[string]*chat.DayAttendance{},
		Resolve: map[string]string{},
	}
}

func (m *Memory) Timetable(_ context.Context, day string) ([]chat.Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	key := strings.ToLower(day)
	if key == "today" {
		key = strings.ToLower(m.Today)
	}
	return m.Days[key], nil
}

func (m *Memory) NextPeriod(context.Context) (*chat.NextPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return m.Next, nil
}

func (m *Memory) Results(context.Context) (*chat.ResultSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return m.Marks, nil
}

func (m *Memory) AttendanceSummary(context.Context) (*chat.AttendanceSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return m.Summary, nil
}

func (m *Memory) DailyAttendance(_ context.Context, day string) (*chat.DayAttendance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	key := strings.ToLower(day)
	if mapped, ok := m.Resolve[key]; ok {
		key = mapped
	}
	if d, ok := m.Daily[key]; ok {
		return d, nil
	}
	return &chat.DayAttendance{Date: key}, nil
}

func (m *Memory) Notifications(context.Context) ([]chat.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return m.Notes, nil
}
