package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCSVStructure(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		fileType FileType
		wantErr  bool
	}{
		{
			"valid students",
			"Register_no,Name,Email,Password,Role\n21EC101,Jeswanth,jes@college.edu,secret,student\n",
			FileTypeStudents,
			false,
		},
		{
			"valid timetable",
			"Student_id,Day_of_week,Period,Start_time,End_time,Subject,Staff\nstu-1,Monday,1,09:00,09:50,CS3491 AIML,Dr. Priya\n",
			FileTypeTimetable,
			false,
		},
		{
			"empty file",
			"",
			FileTypeStudents,
			true,
		},
		{
			"header only",
			"Register_no,Name,Email,Password,Role\n",
			FileTypeStudents,
			true,
		},
		{
			"wrong columns",
			"Name,Email\nJes,jes@college.edu\n",
			FileTypeStudents,
			true,
		},
		{
			"columns out of order",
			"Name,Register_no,Email,Password,Role\nJes,21EC101,jes@college.edu,secret,student\n",
			FileTypeStudents,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			err := ValidateCSVStructure(path, tt.fileType)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCSVStructure() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error is %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9:00", "09:00", false},
		{"09:05", "09:05", false},
		{"14:30", "14:30", false},
		{" 9:00 ", "09:00", false},
		{"25:00", "", true},
		{"9:75", "", true},
		{"nine", "", true},
	}
	for _, tt := range tests {
		got, err := normalizeClock(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("normalizeClock(%q) = (%q, %v), want (%q, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNormalizeDay(t *testing.T) {
	if got, err := normalizeDay(" friday "); err != nil || got != "Friday" {
		t.Errorf("normalizeDay(friday) = (%q, %v)", got, err)
	}
	if _, err := normalizeDay("funday"); err == nil {
		t.Error("unknown weekday should fail")
	}
}
