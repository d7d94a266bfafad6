package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jeswanthsaravanan/smartcampus/auth"
	"github.com/jeswanthsaravanan/smartcampus/database"
	"github.com/jeswanthsaravanan/smartcampus/services"
)

// mountAdmin wires the admin CRUD. The role gate runs in the group
// middleware; these handlers only see admin callers.
func (s *Server) mountAdmin(g *gin.RouterGroup) {
	g.GET("/students", s.adminListStudents)
	g.POST("/students", s.adminCreateStudent)
	g.PUT("/students/:id/role", s.adminUpdateRole)

	g.GET("/timetable", s.adminListTimetable)
	g.POST("/timetable", s.adminCreateTimetable)
	g.PUT("/timetable/:id", s.adminUpdateTimetable)
	g.DELETE("/timetable/:id", s.adminDeleteTimetable)

	g.GET("/results", s.adminListResults)
	g.POST("/results", s.adminCreateResult)
	g.PUT("/results/:id", s.adminUpdateResult)
	g.DELETE("/results/:id", s.adminDeleteResult)

	g.GET("/attendance", s.adminListAttendance)
	g.POST("/attendance", s.adminCreateAttendance)
	g.PUT("/attendance/:id", s.adminUpdateAttendance)
	g.DELETE("/attendance/:id", s.adminDeleteAttendance)

	g.POST("/import/:type", s.adminImportCSV)

	g.GET("/notifications", s.adminListNotifications)
	g.POST("/notifications", s.adminCreateNotification)
	g.PUT("/notifications/:id", s.adminUpdateNotification)
	g.DELETE("/notifications/:id", s.adminDeleteNotification)
}

func (s *Server) adminUnavailable(c *gin.Context) bool {
	if s.deps.Admin == (AdminRepos{}) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": true, "message": "admin store unavailable"})
		return true
	}
	return false
}

func (s *Server) adminListStudents(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	students, err := s.deps.Admin.Students.List()
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) adminCreateStudent(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var req struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=8"`
		Role       string `json:"role" binding:"omitempty,oneof=student admin"`
		RegisterNo string `json:"register_no"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "name, email and a password of at least 8 characters are required"})
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(c, err)
		return
	}
	if req.Role == "" {
		req.Role = "student"
	}
	student := database.Student{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		RegisterNo:   req.RegisterNo,
	}
	if err := s.deps.Admin.Students.Create(&student); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func (s *Server) adminUpdateRole(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required,oneof=student admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "role must be student or admin"})
		return
	}
	if err := s.deps.Admin.Students.UpdateRole(c.Param("id"), req.Role); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (s *Server) adminListTimetable(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	entries, err := s.deps.Admin.Timetable.ListAll()
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) adminCreateTimetable(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var entry database.TimetableEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	if err := s.deps.Admin.Timetable.Create(&entry); err != nil {
		s.serverError(c, err)
		return
	}
	s.invalidateTimetable(c, entry.StudentID)
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) adminUpdateTimetable(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var entry database.TimetableEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	entry.TimetableID = c.Param("id")
	if err := s.deps.Admin.Timetable.Update(&entry); err != nil {
		s.serverError(c, err)
		return
	}
	s.invalidateTimetable(c, entry.StudentID)
	c.JSON(http.StatusOK, entry)
}

func (s *Server) adminDeleteTimetable(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	if err := s.deps.Admin.Timetable.Delete(c.Param("id")); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// adminListResults lists all results, narrowed to one student's
// semester when both query params are given.
func (s *Server) adminListResults(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	student := c.Query("student")
	semester := c.Query("semester")
	var (
		results []database.Result
		err     error
	)
	if student != "" && semester != "" {
		results, err = s.deps.Admin.Results.ListByStudentAndSemester(student, semester)
	} else {
		results, err = s.deps.Admin.Results.ListAll()
	}
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) adminCreateResult(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var r database.Result
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	if err := s.deps.Admin.Results.Create(&r); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) adminUpdateResult(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var r database.Result
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	r.ResultID = c.Param("id")
	if err := s.deps.Admin.Results.Update(&r); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) adminDeleteResult(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	if err := s.deps.Admin.Results.Delete(c.Param("id")); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (s *Server) adminListAttendance(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	records, err := s.deps.Admin.Attendance.ListAll()
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) adminCreateAttendance(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var a database.AttendanceRecord
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	if err := s.deps.Admin.Attendance.Create(&a); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) adminUpdateAttendance(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var a database.AttendanceRecord
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	a.AttendanceID = c.Param("id")
	if err := s.deps.Admin.Attendance.Update(&a); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) adminDeleteAttendance(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	if err := s.deps.Admin.Attendance.Delete(c.Param("id")); err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (s *Server) adminListNotifications(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	notes, err := s.deps.Admin.Notes.ListAll()
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) adminCreateNotification(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var n database.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	if err := s.deps.Admin.Notes.Create(&n); err != nil {
		s.serverError(c, err)
		return
	}
	s.deps.Cache.Invalidate(c.Request.Context(), "notifications:active")
	c.JSON(http.StatusCreated, n)
}

func (s *Server) adminUpdateNotification(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	var n database.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}
	n.NotificationID = c.Param("id")
	if err := s.deps.Admin.Notes.Update(&n); err != nil {
		s.serverError(c, err)
		return
	}
	s.deps.Cache.Invalidate(c.Request.Context(), "notifications:active")
	c.JSON(http.StatusOK, n)
}

func (s *Server) adminDeleteNotification(c *gin.Context) {
	if s.adminUnavailable(c) {
		return
	}
	if err := s.deps.Admin.Notes.Delete(c.Param("id")); err != nil {
		s.serverError(c, err)
		return
	}
	s.deps.Cache.Invalidate(c.Request.Context(), "notifications:active")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

var importTypes = map[string]services.FileType{
	"students":         services.FileTypeStudents,
	"timetable":        services.FileTypeTimetable,
	"results":          services.FileTypeResults,
	"attendance":       services.FileTypeAttendance,
	"daily_attendance": services.FileTypeDaily,
}

// adminImportCSV bulk-loads an uploaded CSV file. The upload is staged
// to a temp file, structure-checked against the expected header set for
// its type, then imported in one transaction.
func (s *Server) adminImportCSV(c *gin.Context) {
	if s.deps.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": true, "message": "admin store unavailable"})
		return
	}
	fileType, ok := importTypes[c.Param("type")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "unknown import type"})
		return
	}

	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "file upload required"})
		return
	}
	staged := filepath.Join(os.TempDir(), uuid.NewString()+".csv")
	defer os.Remove(staged)
	if err := c.SaveUploadedFile(upload, staged); err != nil {
		s.serverError(c, err)
		return
	}

	if err := services.ValidateCSVStructure(staged, fileType); err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": vErr.Message})
			return
		}
		s.serverError(c, err)
		return
	}

	importer := services.NewCSVImporter(s.deps.DB)
	switch fileType {
	case services.FileTypeStudents:
		err = importer.ImportStudents(staged)
	case services.FileTypeTimetable:
		err = importer.ImportTimetable(staged)
	case services.FileTypeResults:
		err = importer.ImportResults(staged)
	case services.FileTypeAttendance:
		err = importer.ImportAttendance(staged)
	case services.FileTypeDaily:
		err = importer.ImportDailyAttendance(staged)
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	s.log.Infof("csv import completed: type=%s file=%s", fileType, upload.Filename)
	c.JSON(http.StatusOK, gin.H{"message": "import completed"})
}

// invalidateTimetable drops the student's cached day lists after a
// schedule write.
func (s *Server) invalidateTimetable(c *gin.Context, studentID string) {
	keys := make([]string, 0, 7)
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		keys = append(keys, "timetable:"+studentID+":"+day)
	}
	s.deps.Cache.Invalidate(c.Request.Context(), keys...)
}
