package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeswanthsaravanan/smartcampus/auth"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "email and password are required"})
		return
	}

	if s.deps.Students == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": true, "message": "login unavailable"})
		return
	}

	student, err := s.deps.Students.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || student == nil || !auth.CheckPassword(student.PasswordHash, req.Password) {
		s.metrics.loginAttempts.WithLabelValues("failure").Inc()
		s.log.Warnf("login rejected for %q", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Invalid email or password"})
		return
	}

	token, exp, err := auth.Issue(student.StudentID, student.Role, s.cfg.Auth.Issuer, s.cfg.Auth.SigningKey, s.cfg.Auth.AccessTTL)
	if err != nil {
		s.serverError(c, err)
		return
	}

	s.metrics.loginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp.Unix(),
		"student": gin.H{
			"id":          student.StudentID,
			"name":        student.Name,
			"role":        student.Role,
			"register_no": student.RegisterNo,
		},
	})
}

// handleLogout tears down the student's chat sessions. Tokens are
// stateless and expire on their own.
func (s *Server) handleLogout(c *gin.Context) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	closed := s.sessions.closeAllFor(claims.Subject)
	s.metrics.chatSessions.Sub(float64(closed))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
