package database

import (
	"time"
)

type Student struct {
	StudentID    string `db:"student_id" json:"student_id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
	RegisterNo   string `db:"register_no" json:"register_no"`
}

// TimetableEntry is one scheduled period. PeriodLabel is text because
// the timetable carries non-numeric rows ("Interval", "Lunch") alongside
// numbered periods. StartTime/EndTime are zero-padded "HH:MM" strings so
// lexicographic ordering matches chronological ordering.
type TimetableEntry struct {
	TimetableID string `db:"timetable_id" json:"timetable_id"`
	StudentID   string `db:"student_id" json:"student_id"`
	DayOfWeek   string `db:"day_of_week" json:"day_of_week"`
	PeriodLabel string `db:"period_label" json:"period"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	Subject     string `db:"subject" json:"subject"`
	Staff       string `db:"staff" json:"staff"`
}

type Result struct {
	ResultID    string `db:"result_id" json:"result_id"`
	StudentID   string `db:"student_id" json:"student_id"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	Marks       int    `db:"marks" json:"marks"`
	MaxMarks    int    `db:"max_marks" json:"max_marks"`
	Grade       string `db:"grade" json:"grade"`
	Semester    string `db:"semester" json:"semester"`
}

// AttendanceRecord is the per-subject aggregate.
type AttendanceRecord struct {
	AttendanceID string `db:"attendance_id" json:"attendance_id"`
	StudentID    string `db:"student_id" json:"student_id"`
	Subject      string `db:"subject" json:"subject"`
	TotalDays    int    `db:"total_days" json:"total_days"`
	PresentDays  int    `db:"present_days" json:"present_days"`
}

func (a AttendanceRecord) Percentage() float64 {
	if a.TotalDays == 0 {
		return 0
	}
	return float64(a.PresentDays) * 100 / float64(a.TotalDays)
}

// DailyAttendanceEntry is one period's Present/Absent mark on a calendar
// date (stored "2006-01-02").
type DailyAttendanceEntry struct {
	EntryID     string `db:"entry_id" json:"entry_id"`
	StudentID   string `db:"student_id" json:"student_id"`
	Date        string `db:"date" json:"date"`
	PeriodLabel string `db:"period_label" json:"period"`
	Subject     string `db:"subject" json:"subject"`
	Status      string `db:"status" json:"status"`
	StartTime   string `db:"start_time" json:"start_time"`
}

type Notification struct {
	NotificationID string    `db:"notification_id" json:"notification_id"`
	Title          string    `db:"title" json:"title"`
	Message        string    `db:"message" json:"message"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}
