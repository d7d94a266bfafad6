package database

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) GetByEmail(email string) (*Student, error) {
	student := new(Student)
	err := r.db.Get(student, `SELECT * FROM students WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *StudentRepository) GetByID(studentID string) (*Student, error) {
	student := new(Student)
	err := r.db.Get(student, `SELECT * FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *StudentRepository) List() ([]Student, error) {
	var students []Student
	err := r.db.Select(&students, `SELECT * FROM students ORDER BY name`)
	return students, err
}

func (r *StudentRepository) Create(s *Student) error {
	if s.StudentID == "" {
		s.StudentID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO students (student_id, name, email, password_hash, role, register_no)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		s.StudentID, s.Name, s.Email, s.PasswordHash, s.Role, s.RegisterNo)
	return err
}

func (r *StudentRepository) UpdateRole(studentID, role string) error {
	_, err := r.db.Exec(`UPDATE students SET role = $1 WHERE student_id = $2`, role, studentID)
	return err
}

type TimetableRepository struct {
	db *sqlx.DB
}

func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) ListByStudentAndDay(studentID, dayOfWeek string) ([]TimetableEntry, error) {
	var entries []TimetableEntry
	query := `
        SELECT * FROM timetable
        WHERE student_id = $1 AND day_of_week = $2
        ORDER BY start_time`
	err := r.db.Select(&entries, query, studentID, dayOfWeek)
	return entries, err
}

func (r *TimetableRepository) ListByStudent(studentID string) ([]TimetableEntry, error) {
	var entries []TimetableEntry
	query := `
        SELECT * FROM timetable
        WHERE student_id = $1
        ORDER BY day_of_week, start_time`
	err := r.db.Select(&entries, query, studentID)
	return entries, err
}

func (r *TimetableRepository) ListAll() ([]TimetableEntry, error) {
	var entries []TimetableEntry
	err := r.db.Select(&entries, `SELECT * FROM timetable ORDER BY day_of_week, start_time`)
	return entries, err
}

func (r *TimetableRepository) Create(e *TimetableEntry) error {
	if e.TimetableID == "" {
		e.TimetableID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO timetable (timetable_id, student_id, day_of_week, period_label, start_time, end_time, subject, staff)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.TimetableID, e.StudentID, e.DayOfWeek, e.PeriodLabel, e.StartTime, e.EndTime, e.Subject, e.Staff)
	return err
}

func (r *TimetableRepository) Update(e *TimetableEntry) error {
	_, err := r.db.Exec(`
        UPDATE timetable
        SET student_id = $1, day_of_week = $2, period_label = $3, start_time = $4,
            end_time = $5, subject = $6, staff = $7
        WHERE timetable_id = $8`,
		e.StudentID, e.DayOfWeek, e.PeriodLabel, e.StartTime, e.EndTime, e.Subject, e.Staff, e.TimetableID)
	return err
}

func (r *TimetableRepository) Delete(timetableID string) error {
	_, err := r.db.Exec(`DELETE FROM timetable WHERE timetable_id = $1`, timetableID)
	return err
}

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) ListByStudent(studentID string) ([]Result, error) {
	var results []Result
	err := r.db.Select(&results, `SELECT * FROM results WHERE student_id = $1 ORDER BY subject_code`, studentID)
	return results, err
}

func (r *ResultRepository) ListByStudentAndSemester(studentID, semester string) ([]Result, error) {
	var results []Result
	query := `SELECT * FROM results WHERE student_id = $1 AND semester = $2 ORDER BY subject_code`
	err := r.db.Select(&results, query, studentID, semester)
	return results, err
}

func (r *ResultRepository) ListAll() ([]Result, error) {
	var results []Result
	err := r.db.Select(&results, `SELECT * FROM results ORDER BY student_id, subject_code`)
	return results, err
}

func (r *ResultRepository) Create(res *Result) error {
	if res.ResultID == "" {
		res.ResultID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO results (result_id, student_id, subject_code, subject_name, marks, max_marks, grade, semester)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ResultID, res.StudentID, res.SubjectCode, res.SubjectName, res.Marks, res.MaxMarks, res.Grade, res.Semester)
	return err
}

func (r *ResultRepository) Update(res *Result) error {
	_, err := r.db.Exec(`
        UPDATE results
        SET student_id = $1, subject_code = $2, subject_name = $3, marks = $4,
            max_marks = $5, grade = $6, semester = $7
        WHERE result_id = $8`,
		res.StudentID, res.SubjectCode, res.SubjectName, res.Marks, res.MaxMarks, res.Grade, res.Semester, res.ResultID)
	return err
}

func (r *ResultRepository) Delete(resultID string) error {
	_, err := r.db.Exec(`DELETE FROM results WHERE result_id = $1`, resultID)
	return err
}

type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) ListByStudent(studentID string) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.Select(&records, `SELECT * FROM attendance WHERE student_id = $1 ORDER BY subject`, studentID)
	return records, err
}

func (r *AttendanceRepository) ListAll() ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.Select(&records, `SELECT * FROM attendance ORDER BY student_id, subject`)
	return records, err
}

func (r *AttendanceRepository) Create(a *AttendanceRecord) error {
	if a.AttendanceID == "" {
		a.AttendanceID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO attendance (attendance_id, student_id, subject, total_days, present_days)
        VALUES ($1, $2, $3, $4, $5)`,
		a.AttendanceID, a.StudentID, a.Subject, a.TotalDays, a.PresentDays)
	return err
}

func (r *AttendanceRepository) Update(a *AttendanceRecord) error {
	_, err := r.db.Exec(`
        UPDATE attendance
        SET student_id = $1, subject = $2, total_days = $3, present_days = $4
        WHERE attendance_id = $5`,
		a.StudentID, a.Subject, a.TotalDays, a.PresentDays, a.AttendanceID)
	return err
}

func (r *AttendanceRepository) Delete(attendanceID string) error {
	_, err := r.db.Exec(`DELETE FROM attendance WHERE attendance_id = $1`, attendanceID)
	return err
}

type DailyAttendanceRepository struct {
	db *sqlx.DB
}

func NewDailyAttendanceRepository(db *sqlx.DB) *DailyAttendanceRepository {
	return &DailyAttendanceRepository{db: db}
}

func (r *DailyAttendanceRepository) ListByStudentAndDate(studentID, date string) ([]DailyAttendanceEntry, error) {
	var entries []DailyAttendanceEntry
	query := `
        SELECT * FROM daily_attendance
        WHERE student_id = $1 AND date = $2
        ORDER BY start_time`
	err := r.db.Select(&entries, query, studentID, date)
	return entries, err
}

func (r *DailyAttendanceRepository) Create(e *DailyAttendanceEntry) error {
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO daily_attendance (entry_id, student_id, date, period_label, subject, status, start_time)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.EntryID, e.StudentID, e.Date, e.PeriodLabel, e.Subject, e.Status, e.StartTime)
	return err
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListActive() ([]Notification, error) {
	var notifications []Notification
	query := `SELECT * FROM notifications WHERE is_active = TRUE ORDER BY created_at DESC`
	err := r.db.Select(&notifications, query)
	return notifications, err
}

func (r *NotificationRepository) ListAll() ([]Notification, error) {
	var notifications []Notification
	err := r.db.Select(&notifications, `SELECT * FROM notifications ORDER BY created_at DESC`)
	return notifications, err
}

func (r *NotificationRepository) Get(notificationID string) (*Notification, error) {
	n := new(Notification)
	err := r.db.Get(n, `SELECT * FROM notifications WHERE notification_id = $1`, notificationID)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) Create(n *Notification) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	_, err := r.db.Exec(`
        INSERT INTO notifications (notification_id, title, message, created_at, is_active)
        VALUES ($1, $2, $3, $4, $5)`,
		n.NotificationID, n.Title, n.Message, n.CreatedAt, n.IsActive)
	return err
}

func (r *NotificationRepository) Update(n *Notification) error {
	_, err := r.db.Exec(`
        UPDATE notifications
        SET title = $1, message = $2, is_active = $3
        WHERE notification_id = $4`,
		n.Title, n.Message, n.IsActive, n.NotificationID)
	return err
}

func (r *NotificationRepository) Delete(notificationID string) error {
	_, err := r.db.Exec(`DELETE FROM notifications WHERE notification_id = $1`, notificationID)
	return err
}
