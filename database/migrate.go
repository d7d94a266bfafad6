package database

import (
	"github.com/jmoiron/sqlx"
)

// Migrate creates the portal schema. Idempotent; runs at every start.
func Migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		student_id    TEXT PRIMARY KEY,
		register_no   TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'student'
	);

	CREATE TABLE IF NOT EXISTS timetable (
		timetable_id TEXT PRIMARY KEY,
		student_id   TEXT NOT NULL REFERENCES students(student_id),
		day_of_week  TEXT NOT NULL,
		period_label TEXT NOT NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		subject      TEXT NOT NULL,
		staff        TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS results (
		result_id    TEXT PRIMARY KEY,
		student_id   TEXT NOT NULL REFERENCES students(student_id),
		subject_code TEXT NOT NULL,
		subject_name TEXT NOT NULL,
		marks        INTEGER NOT NULL,
		max_marks    INTEGER NOT NULL,
		grade        TEXT NOT NULL DEFAULT '',
		semester     TEXT NOT NULL DEFAULT '',
		UNIQUE (student_id, subject_code, semester)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		attendance_id TEXT PRIMARY KEY,
		student_id    TEXT NOT NULL REFERENCES students(student_id),
		subject       TEXT NOT NULL,
		total_days    INTEGER NOT NULL DEFAULT 0,
		present_days  INTEGER NOT NULL DEFAULT 0,
		UNIQUE (student_id, subject)
	);

	CREATE TABLE IF NOT EXISTS daily_attendance (
		entry_id     TEXT PRIMARY KEY,
		student_id   TEXT NOT NULL REFERENCES students(student_id),
		date         TEXT NOT NULL,
		period_label TEXT NOT NULL,
		subject      TEXT NOT NULL,
		status       TEXT NOT NULL,
		start_time   TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS notifications (
		notification_id TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		message         TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		is_active       BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_timetable_student_day ON timetable(student_id, day_of_week);
	CREATE INDEX IF NOT EXISTS idx_results_student       ON results(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_student    ON attendance(student_id);
	CREATE INDEX IF NOT EXISTS idx_daily_student_date    ON daily_attendance(student_id, date);
	`
	_, err := db.Exec(schema)
	return err
}
