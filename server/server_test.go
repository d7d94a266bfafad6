package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/jeswanthsaravanan/smartcampus/auth"
	"github.com/jeswanthsaravanan/smartcampus/chat"
	"github.com/jeswanthsaravanan/smartcampus/config"
	"github.com/jeswanthsaravanan/smartcampus/database"
	"github.com/jeswanthsaravanan/smartcampus/logger"
	"github.com/jeswanthsaravanan/smartcampus/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeDirectory struct {
	students map[string]*database.Student
}

func (d *fakeDirectory) GetByEmail(email string) (*database.Student, error) {
	for _, s := range d.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) GetByID(studentID string) (*database.Student, error) {
	return d.students[studentID], nil
}

// Wednesday, 2025-06-11 10:00 UTC.
var serverNow = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

var errTest = errors.New("database unreachable")

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		Auth: config.AuthConfig{
			Issuer:     "smartcampus",
			SigningKey: "test-signing-key",
			AccessTTL:  time.Hour,
		},
		HTTP: config.HTTPConfig{Port: "0"},
	}
}

func testServer(t *testing.T, mem *store.Memory, dir StudentDirectory) *Server {
	t.Helper()
	cfg := testConfig()
	deps := Deps{
		Source:   SourceFunc(func(string) chat.RecordStore { return mem }),
		Students: dir,
		Clock:    func() time.Time { return serverNow },
	}
	return New(cfg, logger.GetInstance(), deps)
}

func bearerFor(t *testing.T, cfg *config.Config, studentID, role string) string {
	t.Helper()
	token, _, err := auth.Issue(studentID, role, cfg.Auth.Issuer, cfg.Auth.SigningKey, cfg.Auth.AccessTTL)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func fixtureStore() *store.Memory {
	mem := store.NewMemory()
	mem.Today = "wednesday"
	mem.Days["wednesday"] = []chat.Slot{
		{Period: "1", Time: "09:00 - 09:50", Subject: "CS3491 AIML", Staff: "Dr. Priya"},
		{Period: "2", Time: "09:50 - 10:40", Subject: "CEC348 RS", Staff: "Mr. Kumar"},
	}
	mem.Next = &chat.NextPeriod{Period: mem.Days["wednesday"][1], IsCurrent: true}
	mem.Summary = &chat.AttendanceSummary{
		Attendance:        []chat.SubjectAttendance{{Subject: "CS3491 AIML", Present: 40, Total: 45, Percentage: 88.9}},
		OverallPercentage: 88.9,
	}
	mem.Marks = &chat.ResultSummary{
		Results: []chat.ResultRecord{{SubjectCode: "CS3491", SubjectName: "AIML", Marks: 82, MaxMarks: 100, Grade: "A", Status: "Pass"}},
		Average: 82,
	}
	mem.Notes = []chat.Notification{{Title: "Exam", Message: "Hall tickets out", Date: "01 Jun 2025"}}
	return mem
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("open-sesame")
	if err != nil {
		t.Fatal(err)
	}
	dir := &fakeDirectory{students: map[string]*database.Student{
		"stu-1": {StudentID: "stu-1", Name: "Jeswanth", Email: "jes@college.edu", PasswordHash: hash, Role: "student"},
	}}
	s := testServer(t, fixtureStore(), dir)

	w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{"email": "jes@college.edu", "password": "open-sesame"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token   string `json:"token"`
		Student struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"student"`
	}
	decode(t, w, &resp)
	if resp.Token == "" || resp.Student.ID != "stu-1" {
		t.Errorf("resp = %+v", resp)
	}

	claims, err := auth.Parse(resp.Token, s.cfg.Auth.SigningKey, s.cfg.Auth.Issuer)
	if err != nil || claims.Subject != "stu-1" {
		t.Errorf("issued token does not parse: %v", err)
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{"email": "jes@college.edu", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password = %d, want 401", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@college.edu", "password": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email = %d, want 401", w.Code)
	}
}

func TestRoutesRequireToken(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	for _, path := range []string{"/api/timetable/today", "/api/results", "/api/attendance", "/api/notifications"} {
		w := doJSON(t, s, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, w.Code)
		}
	}
}

func TestTimetableEndpoints(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	token := bearerFor(t, s.cfg, "stu-1", "student")

	w := doJSON(t, s, http.MethodGet, "/api/timetable/today", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("today = %d: %s", w.Code, w.Body.String())
	}
	var slots []chat.Slot
	decode(t, w, &slots)
	if len(slots) != 2 || slots[0].Subject != "CS3491 AIML" {
		t.Errorf("slots = %+v", slots)
	}

	w = doJSON(t, s, http.MethodGet, "/api/timetable/query?day=wednesday", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("query = %d", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/timetable/next", token, nil)
	var next struct {
		Period    *chat.Slot `json:"period"`
		IsCurrent bool       `json:"isCurrent"`
	}
	decode(t, w, &next)
	if next.Period == nil || !next.IsCurrent || next.Period.Subject != "CEC348 RS" {
		t.Errorf("next = %+v", next)
	}
}

// weekMemory serves the whole week in one read, the way the database
// adapter does.
type weekMemory struct {
	*store.Memory
	weekCalls int
}

func (m *weekMemory) Week(context.Context) (map[string][]chat.Slot, error) {
	m.weekCalls++
	return map[string][]chat.Slot{"Wednesday": m.Days["wednesday"]}, nil
}

func TestTimetableWeek(t *testing.T) {
	mem := fixtureStore()
	wm := &weekMemory{Memory: mem}
	s := New(testConfig(), logger.GetInstance(), Deps{
		Source: SourceFunc(func(string) chat.RecordStore { return wm }),
		Clock:  func() time.Time { return serverNow },
	})
	token := bearerFor(t, s.cfg, "stu-1", "student")

	w := doJSON(t, s, http.MethodGet, "/api/timetable", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("week = %d: %s", w.Code, w.Body.String())
	}
	var week map[string][]chat.Slot
	decode(t, w, &week)
	if len(week["Wednesday"]) != 2 {
		t.Errorf("wednesday = %+v", week["Wednesday"])
	}
	if slots, ok := week["Monday"]; !ok || len(slots) != 0 {
		t.Error("empty days still appear in the week map")
	}
	if wm.weekCalls != 1 {
		t.Errorf("weekCalls = %d, want 1", wm.weekCalls)
	}

	// Stores without a bulk read fall back to per-day lookups.
	s2 := testServer(t, mem, nil)
	w = doJSON(t, s2, http.MethodGet, "/api/timetable", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fallback week = %d", w.Code)
	}
	week = nil
	decode(t, w, &week)
	if len(week["Wednesday"]) != 2 {
		t.Errorf("fallback wednesday = %+v", week["Wednesday"])
	}
}

func TestTimetableNextWhenDayOver(t *testing.T) {
	mem := fixtureStore()
	mem.Next = nil
	s := testServer(t, mem, nil)
	token := bearerFor(t, s.cfg, "stu-1", "student")

	w := doJSON(t, s, http.MethodGet, "/api/timetable/next", token, nil)
	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	if resp.Message != "No more classes today" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestResultsShape(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	token := bearerFor(t, s.cfg, "stu-1", "student")

	w := doJSON(t, s, http.MethodGet, "/api/results", token, nil)
	var resp struct {
		Results       []chat.ResultRecord `json:"results"`
		Average       float64             `json:"average"`
		TotalSubjects int                 `json:"totalSubjects"`
	}
	decode(t, w, &resp)
	if resp.TotalSubjects != 1 || resp.Average != 82 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestDailyAttendanceRejectsFuture(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	token := bearerFor(t, s.cfg, "stu-1", "student")

	for _, path := range []string{
		"/api/attendance/daily?day=tomorrow",
		"/api/attendance/daily?day=next%20friday",
		"/api/attendance/daily/2025-06-20",
	} {
		w := doJSON(t, s, http.MethodGet, path, token, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, w.Code)
			continue
		}
		var resp struct {
			Error   bool   `json:"error"`
			Message string `json:"message"`
		}
		decode(t, w, &resp)
		if !resp.Error || resp.Message != futureDateMessage {
			t.Errorf("GET %s body = %+v", path, resp)
		}
	}

	// Past dates pass through.
	w := doJSON(t, s, http.MethodGet, "/api/attendance/daily/2025-06-09", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("past date = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/api/attendance/daily/junk", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed date = %d, want 400", w.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	token := bearerFor(t, s.cfg, "stu-1", "student")

	// Opening with an empty message returns the welcome transcript.
	w := doJSON(t, s, http.MethodPost, "/api/chat/timetable", token, gin.H{"message": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("open = %d: %s", w.Code, w.Body.String())
	}
	var opened struct {
		SessionID string         `json:"session_id"`
		Messages  []chat.Message `json:"messages"`
	}
	decode(t, w, &opened)
	if opened.SessionID == "" || len(opened.Messages) != 1 || opened.Messages[0].Role != chat.RoleBot {
		t.Fatalf("opened = %+v", opened)
	}

	w = doJSON(t, s, http.MethodPost, "/api/chat/timetable", token, gin.H{"message": "show today's timetable"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string         `json:"session_id"`
		Reply     chat.Message   `json:"reply"`
		Messages  []chat.Message `json:"messages"`
	}
	decode(t, w, &resp)
	if resp.SessionID != opened.SessionID {
		t.Error("same student and module should reuse the session")
	}
	if resp.Reply.Data == nil || resp.Reply.Data.Type != chat.PayloadTable {
		t.Errorf("reply = %+v", resp.Reply)
	}
	if len(resp.Messages) != 3 {
		t.Errorf("transcript has %d messages, want 3", len(resp.Messages))
	}

	w = doJSON(t, s, http.MethodPost, "/api/chat/horoscope", token, gin.H{"message": "hi"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown module = %d, want 404", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/chat/timetable", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("close = %d", w.Code)
	}
	// A fresh session starts after close.
	w = doJSON(t, s, http.MethodPost, "/api/chat/timetable", token, gin.H{"message": ""})
	var reopened struct {
		SessionID string `json:"session_id"`
	}
	decode(t, w, &reopened)
	if reopened.SessionID == opened.SessionID {
		t.Error("closed session must not be reused")
	}
}

func TestChatStoreFailure(t *testing.T) {
	mem := fixtureStore()
	mem.Fail = errTest
	s := testServer(t, mem, nil)
	token := bearerFor(t, s.cfg, "stu-1", "student")

	w := doJSON(t, s, http.MethodPost, "/api/chat/result", token, gin.H{"message": "show my results"})
	if w.Code != http.StatusOK {
		t.Fatalf("chat = %d", w.Code)
	}
	var resp struct {
		Reply chat.Message `json:"reply"`
	}
	decode(t, w, &resp)
	if !resp.Reply.IsError {
		t.Error("store failure should mark the reply as an error turn")
	}
}

func TestAdminRoleGate(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	studentToken := bearerFor(t, s.cfg, "stu-1", "student")

	w := doJSON(t, s, http.MethodGet, "/api/admin/students", studentToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student hitting admin = %d, want 403", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	if resp.Message != "Admin access required" {
		t.Errorf("message = %q", resp.Message)
	}
}

func uploadCSV(t *testing.T, s *Server, path, token, field, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "upload.csv")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestAdminImportCSV(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	admin := bearerFor(t, s.cfg, "adm-1", "admin")

	w := uploadCSV(t, s, "/api/admin/import/students", admin, "file", "x")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("import without db = %d, want 503", w.Code)
	}

	s.deps.DB = sqlx.NewDb(nil, "postgres")

	w = uploadCSV(t, s, "/api/admin/import/grades", admin, "file", "x")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown type = %d, want 400", w.Code)
	}

	w = uploadCSV(t, s, "/api/admin/import/students", admin, "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing file = %d, want 400", w.Code)
	}

	// Timetable headers on a students import fail structure validation
	// before any row reaches the database.
	bad := "Student_id,Day_of_week,Period,Start_time,End_time,Subject,Staff\nstu-1,Monday,1,09:00,09:50,CS3491 AIML,Dr. Priya\n"
	w = uploadCSV(t, s, "/api/admin/import/students", admin, "file", bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong headers = %d, want 400", w.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	if !strings.Contains(resp.Message, "Wrong column layout") {
		t.Errorf("message = %q, want column layout complaint", resp.Message)
	}

	student := bearerFor(t, s.cfg, "stu-1", "student")
	w = uploadCSV(t, s, "/api/admin/import/students", student, "file", "x")
	if w.Code != http.StatusForbidden {
		t.Errorf("student import = %d, want 403", w.Code)
	}
}

func TestAdminCreateStudentValidation(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	db := sqlx.NewDb(nil, "postgres")
	s.deps.Admin = AdminRepos{
		Students:   database.NewStudentRepository(db),
		Timetable:  database.NewTimetableRepository(db),
		Results:    database.NewResultRepository(db),
		Attendance: database.NewAttendanceRepository(db),
		Notes:      database.NewNotificationRepository(db),
	}
	admin := bearerFor(t, s.cfg, "adm-1", "admin")

	tests := []struct {
		name string
		body gin.H
	}{
		{"short password", gin.H{"name": "A", "email": "a@x.edu", "password": "short"}},
		{"missing email", gin.H{"name": "A", "password": "longenough"}},
		{"bad role", gin.H{"name": "A", "email": "a@x.edu", "password": "longenough", "role": "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/admin/students", admin, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("create = %d, want 400", w.Code)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t, fixtureStore(), nil)
	w := doJSON(t, s, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz without db = %d, want 503", w.Code)
	}
}
