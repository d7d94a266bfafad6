// Package services holds the CSV seeding pipeline: the admin's bulk
// path for loading students, timetables, results and attendance. Each
// import runs in one transaction; a bad row aborts the whole file.
package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jeswanthsaravanan/smartcampus/auth"
)

type CSVImporter struct {
	db *sqlx.DB
}

func NewCSVImporter(db *sqlx.DB) *CSVImporter {
	return &CSVImporter{db: db}
}

// ImportStudents upserts students by email. Passwords arrive in plain
// text in the seed file and are bcrypt-hashed before storage.
func (imp *CSVImporter) ImportStudents(filePath string) error {
	if err := ValidateCSVStructure(filePath, FileTypeStudents); err != nil {
		return err
	}
	records, err := readCSV(filePath)
	if err != nil {
		return err
	}

	tx, err := imp.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := 1; i < len(records); i++ {
		record := records[i]

		registerNo := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		email := strings.ToLower(strings.TrimSpace(record[2]))
		role := strings.TrimSpace(record[4])
		if role == "" {
			role = "student"
		}
		if role != "student" && role != "admin" {
			return &ValidationError{Message: fmt.Sprintf("Row %d: role must be student or admin, got %q.", i+1, role)}
		}

		hash, err := auth.HashPassword(record[3])
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO students (student_id, register_no, name, email, password_hash, role)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO UPDATE
			SET register_no = EXCLUDED.register_no, name = EXCLUDED.name,
			    password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
			uuid.NewString(), registerNo, name, email, hash, role)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ImportTimetable replaces each mentioned student's schedule for the
// days present in the file.
func (imp *CSVImporter) ImportTimetable(filePath string) error {
	if err := ValidateCSVStructure(filePath, FileTypeTimetable); err != nil {
		return err
	}
	records, err := readCSV(filePath)
	if err != nil {
		return err
	}

	tx, err := imp.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cleared := map[string]bool{}
	for i := 1; i < len(records); i++ {
		record := records[i]

		studentID := strings.TrimSpace(record[0])
		dayOfWeek, err := normalizeDay(record[1])
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: %v", i+1, err)}
		}
		start, err := normalizeClock(record[3])
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: %v", i+1, err)}
		}
		end, err := normalizeClock(record[4])
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: %v", i+1, err)}
		}
		if end <= start {
			return &ValidationError{Message: fmt.Sprintf("Row %d: end time %s is not after start time %s.", i+1, end, start)}
		}

		key := studentID + "/" + dayOfWeek
		if !cleared[key] {
			if _, err := tx.Exec(`DELETE FROM timetable WHERE student_id = $1 AND day_of_week = $2`, studentID, dayOfWeek); err != nil {
				return err
			}
			cleared[key] = true
		}

		_, err = tx.Exec(`
			INSERT INTO timetable (timetable_id, student_id, day_of_week, period_label, start_time, end_time, subject, staff)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), studentID, dayOfWeek, strings.TrimSpace(record[2]), start, end,
			strings.TrimSpace(record[5]), strings.TrimSpace(record[6]))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (imp *CSVImporter) ImportResults(filePath string) error {
	if err := ValidateCSVStructure(filePath, FileTypeResults); err != nil {
		return err
	}
	records, err := readCSV(filePath)
	if err != nil {
		return err
	}

	tx, err := imp.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := 1; i < len(records); i++ {
		record := records[i]

		marks, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: marks must be a number, got %q.", i+1, record[3])}
		}
		maxMarks, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: max marks must be a number, got %q.", i+1, record[4])}
		}
		if marks < 0 || maxMarks <= 0 || marks > maxMarks {
			return &ValidationError{Message: fmt.Sprintf("Row %d: marks %d/%d out of range.", i+1, marks, maxMarks)}
		}

		_, err = tx.Exec(`
			INSERT INTO results (result_id, student_id, subject_code, subject_name, marks, max_marks, grade, semester)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (student_id, subject_code, semester) DO UPDATE
			SET subject_name = EXCLUDED.subject_name, marks = EXCLUDED.marks,
			    max_marks = EXCLUDED.max_marks, grade = EXCLUDED.grade`,
			uuid.NewString(), strings.TrimSpace(record[0]), strings.TrimSpace(record[1]),
			strings.TrimSpace(record[2]), marks, maxMarks, strings.TrimSpace(record[5]),
			strings.TrimSpace(record[6]))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (imp *CSVImporter) ImportAttendance(filePath string) error {
	if err := ValidateCSVStructure(filePath, FileTypeAttendance); err != nil {
		return err
	}
	records, err := readCSV(filePath)
	if err != nil {
		return err
	}

	tx, err := imp.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := 1; i < len(records); i++ {
		record := records[i]

		total, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: total days must be a number, got %q.", i+1, record[2])}
		}
		present, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: present days must be a number, got %q.", i+1, record[3])}
		}
		if total < 0 || present < 0 || present > total {
			return &ValidationError{Message: fmt.Sprintf("Row %d: present %d exceeds total %d.", i+1, present, total)}
		}

		_, err = tx.Exec(`
			INSERT INTO attendance (attendance_id, student_id, subject, total_days, present_days)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (student_id, subject) DO UPDATE
			SET total_days = EXCLUDED.total_days, present_days = EXCLUDED.present_days`,
			uuid.NewString(), strings.TrimSpace(record[0]), strings.TrimSpace(record[1]), total, present)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (imp *CSVImporter) ImportDailyAttendance(filePath string) error {
	if err := ValidateCSVStructure(filePath, FileTypeDaily); err != nil {
		return err
	}
	records, err := readCSV(filePath)
	if err != nil {
		return err
	}

	tx, err := imp.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := 1; i < len(records); i++ {
		record := records[i]

		date := strings.TrimSpace(record[1])
		if _, err := parseISODate(date); err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: date must be YYYY-MM-DD, got %q.", i+1, date)}
		}
		status := strings.TrimSpace(record[4])
		if status != "Present" && status != "Absent" {
			return &ValidationError{Message: fmt.Sprintf("Row %d: status must be Present or Absent, got %q.", i+1, status)}
		}
		start, err := normalizeClock(record[5])
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Row %d: %v", i+1, err)}
		}

		_, err = tx.Exec(`
			INSERT INTO daily_attendance (entry_id, student_id, date, period_label, subject, status, start_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), strings.TrimSpace(record[0]), date,
			strings.TrimSpace(record[2]), strings.TrimSpace(record[3]), status, start)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func readCSV(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	return reader.ReadAll()
}

// normalizeClock turns "9:00" or "09:00" into zero-padded "HH:MM" so
// lexicographic comparison stays chronological.
func normalizeClock(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("time %q is not HH:MM", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return "", fmt.Errorf("time %q has a bad hour", raw)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil || mins < 0 || mins > 59 {
		return "", fmt.Errorf("time %q has bad minutes", raw)
	}
	return fmt.Sprintf("%02d:%02d", hours, mins), nil
}

func parseISODate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

var dayNames = map[string]string{
	"monday": "Monday", "tuesday": "Tuesday", "wednesday": "Wednesday",
	"thursday": "Thursday", "friday": "Friday", "saturday": "Saturday",
	"sunday": "Sunday",
}

func normalizeDay(raw string) (string, error) {
	day, ok := dayNames[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}
