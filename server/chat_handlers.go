package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeswanthsaravanan/smartcampus/chat"
)

// Chat sessions idle out after this long.
const sessionIdleTTL = 30 * time.Minute

var validModules = map[chat.Module]bool{
	chat.ModuleTimetable:    true,
	chat.ModuleResult:       true,
	chat.ModuleAttendance:   true,
	chat.ModuleNotification: true,
}

// sessionRegistry holds one live session per student and module.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*chat.Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: map[string]*chat.Session{}}
}

func registryKey(studentID string, module chat.Module) string {
	return studentID + "/" + string(module)
}

// get returns the student's session for the module, creating it with
// build on first use. Stale sessions are swept on the way in.
func (r *sessionRegistry) get(studentID string, module chat.Module, build func() *chat.Session) (*chat.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-sessionIdleTTL)
	for key, sess := range r.sessions {
		if sess.LastUsed().Before(cutoff) {
			sess.Close()
			delete(r.sessions, key)
		}
	}

	key := registryKey(studentID, module)
	if sess, ok := r.sessions[key]; ok {
		return sess, false
	}
	sess := build()
	r.sessions[key] = sess
	return sess, true
}

func (r *sessionRegistry) close(studentID string, module chat.Module) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registryKey(studentID, module)
	sess, ok := r.sessions[key]
	if !ok {
		return false
	}
	sess.Close()
	delete(r.sessions, key)
	return true
}

func (r *sessionRegistry) closeAllFor(studentID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	closed := 0
	for key, sess := range r.sessions {
		if len(key) > len(studentID) && key[:len(studentID)+1] == studentID+"/" {
			sess.Close()
			delete(r.sessions, key)
			closed++
		}
	}
	return closed
}

// handleChat feeds one message to the student's session for the module
// and returns the bot turn plus the full transcript.
func (s *Server) handleChat(c *gin.Context) {
	view, claims, ok := s.view(c)
	if !ok {
		return
	}
	module := chat.Module(c.Param("module"))
	if !validModules[module] {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "Unknown chat module"})
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "invalid request body"})
		return
	}

	sess, created := s.sessions.get(claims.Subject, module, func() *chat.Session {
		engine := chat.NewEngine(view, s.chatCfg, s.deps.Clock, s.log)
		engine.Observer = s.metrics.observeMessage
		return chat.NewSession(engine, module)
	})
	if created {
		s.metrics.chatSessions.Inc()
	}

	// An empty message opens the session and returns the welcome
	// transcript without running the engine.
	if req.Message == "" {
		c.JSON(http.StatusOK, gin.H{"session_id": sess.ID(), "messages": sess.Messages()})
		return
	}

	reply, err := sess.Submit(c.Request.Context(), req.Message)
	switch {
	case errors.Is(err, chat.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": true, "message": "Previous message is still being answered"})
		return
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Message must not be empty"})
		return
	case errors.Is(err, chat.ErrClosed):
		c.JSON(http.StatusGone, gin.H{"error": true, "message": "Session closed"})
		return
	case err != nil:
		s.serverError(c, err)
		return
	}

	if reply.IsError {
		s.metrics.storeFailures.Inc()
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID(),
		"reply":      reply,
		"messages":   sess.Messages(),
	})
}

func (s *Server) handleChatClose(c *gin.Context) {
	claims, okClaims := s.claims(c)
	if !okClaims {
		return
	}
	module := chat.Module(c.Param("module"))
	if !validModules[module] {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "Unknown chat module"})
		return
	}
	if s.sessions.close(claims.Subject, module) {
		s.metrics.chatSessions.Dec()
	}
	c.JSON(http.StatusOK, gin.H{"message": "session closed"})
}
