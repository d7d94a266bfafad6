package services

import (
	"encoding/csv"
	"fmt"
	"os"
)

type FileType string

const (
	FileTypeStudents   FileType = "students"
	FileTypeTimetable  FileType = "timetable"
	FileTypeResults    FileType = "results"
	FileTypeAttendance FileType = "attendance"
	FileTypeDaily      FileType = "daily_attendance"
)

var expectedHeaders = map[FileType][]string{
	FileTypeStudents:   {"Register_no", "Name", "Email", "Password", "Role"},
	FileTypeTimetable:  {"Student_id", "Day_of_week", "Period", "Start_time", "End_time", "Subject", "Staff"},
	FileTypeResults:    {"Student_id", "Subject_code", "Subject_name", "Marks", "Max_marks", "Grade", "Semester"},
	FileTypeAttendance: {"Student_id", "Subject", "Total_days", "Present_days"},
	FileTypeDaily:      {"Student_id", "Date", "Period", "Subject", "Status", "Start_time"},
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateCSVStructure checks the file parses as CSV, has data rows,
// and carries exactly the expected header for its type.
func ValidateCSVStructure(filePath string, expectedType FileType) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return &ValidationError{Message: "Could not read the CSV file. Make sure the file is valid CSV."}
	}

	if len(records) == 0 {
		return &ValidationError{Message: "The file is empty. Upload a file with data."}
	}

	if len(records) == 1 {
		return &ValidationError{Message: "The file contains only a header row. Add data rows."}
	}

	expected, ok := expectedHeaders[expectedType]
	if !ok {
		return &ValidationError{Message: fmt.Sprintf("Unknown import type %q.", expectedType)}
	}

	if !validateHeaders(records[0], expected) {
		return &ValidationError{
			Message: fmt.Sprintf("Wrong column layout for a %s file.\n\nExpected columns:\n%v\n\nGot:\n%v",
				expectedType, expected, records[0]),
		}
	}

	return nil
}

func validateHeaders(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, exp := range expected {
		if actual[i] != exp {
			return false
		}
	}
	return true
}
