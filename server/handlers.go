package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeswanthsaravanan/smartcampus/auth"
	"github.com/jeswanthsaravanan/smartcampus/chat"
)

const futureDateMessage = "Attendance is not available for future dates."

func (s *Server) claims(c *gin.Context) (auth.Claims, bool) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
	}
	return claims, ok
}

// view returns the record store bound to the authenticated student.
func (s *Server) view(c *gin.Context) (chat.RecordStore, auth.Claims, bool) {
	claims, ok := s.claims(c)
	if !ok {
		return nil, auth.Claims{}, false
	}
	return s.deps.Source.ForStudent(claims.Subject), claims, true
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.log.Errorf("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": err.Error()})
}

// weekLister is implemented by stores that can serve the whole week in
// one read instead of six per-day lookups.
type weekLister interface {
	Week(ctx context.Context) (map[string][]chat.Slot, error)
}

func (s *Server) handleTimetableWeek(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	week := gin.H{}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		week[day] = []chat.Slot{}
	}
	if wl, ok := view.(weekLister); ok {
		days, err := wl.Week(c.Request.Context())
		if err != nil {
			s.serverError(c, err)
			return
		}
		for day, slots := range days {
			week[day] = slots
		}
		c.JSON(http.StatusOK, week)
		return
	}
	for day := range week {
		slots, err := view.Timetable(c.Request.Context(), day)
		if err != nil {
			s.serverError(c, err)
			return
		}
		week[day] = slots
	}
	c.JSON(http.StatusOK, week)
}

func (s *Server) handleTimetableToday(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	slots, err := view.Timetable(c.Request.Context(), "today")
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (s *Server) handleTimetableQuery(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	day := c.DefaultQuery("day", "today")
	slots, err := view.Timetable(c.Request.Context(), day)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (s *Server) handleTimetableNext(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	np, err := view.NextPeriod(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	if np == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No more classes today"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": np.Period, "isCurrent": np.IsCurrent})
}

func (s *Server) handleResults(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	summary, err := view.Results(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":       summary.Results,
		"average":       summary.Average,
		"totalSubjects": len(summary.Results),
	})
}

func (s *Server) handleAttendanceSummary(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	summary, err := view.AttendanceSummary(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleAttendanceDaily(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	day := c.DefaultQuery("day", "today")
	if s.resolver.IsFutureQuery(day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": futureDateMessage})
		return
	}
	att, err := view.DailyAttendance(c.Request.Context(), day)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

func (s *Server) handleAttendanceDailyDate(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	raw := c.Param("date")
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	if s.resolver.IsFuture(d) {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": futureDateMessage})
		return
	}
	att, err := view.DailyAttendance(c.Request.Context(), d.Format("2006-01-02"))
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

func (s *Server) handleNotifications(c *gin.Context) {
	view, _, ok := s.view(c)
	if !ok {
		return
	}
	notes, err := view.Notifications(c.Request.Context())
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) handleNotification(c *gin.Context) {
	if s.deps.Notes == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "Notification not found"})
		return
	}
	note, err := s.deps.Notes.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, note)
}
