package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned while an earlier message is still being
	// answered. One in-flight message per session.
	ErrBusy = errors.New("session busy")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session closed")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("empty message")
)

// Session is one module-scoped conversation: an append-only transcript
// seeded with the module's welcome message. Safe for concurrent use.
type Session struct {
	id     string
	module Module
	engine *Engine
	now    func() time.Time

	mu       sync.Mutex
	messages []Message
	pending  bool
	closed   bool
	lastUsed time.Time
}

func NewSession(engine *Engine, module Module) *Session {
	s := &Session{
		id:     uuid.NewString(),
		module: module,
		engine: engine,
		now:    time.Now,
	}
	s.lastUsed = s.now()
	s.messages = append(s.messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleBot,
		Content:   engine.Welcome(module),
		Timestamp: s.lastUsed,
	})
	return s
}

func (s *Session) ID() string     { return s.id }
func (s *Session) Module() Module { return s.module }

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastUsed reports when the session last accepted a message. The
// server's registry uses it to expire idle sessions.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Submit appends the user message, runs the engine and appends the bot
// reply. The transcript gate admits one message at a time; a second
// Submit while the first is unanswered fails with ErrBusy. If the
// session is closed while the engine is working, the result is
// discarded and neither message survives the close.
func (s *Session) Submit(ctx context.Context, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.pending {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.pending = true
	s.lastUsed = s.now()
	s.messages = append(s.messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: s.lastUsed,
	})
	s.mu.Unlock()

	reply := s.engine.Process(ctx, s.module, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	s.pending = false
	msg := Message{
		ID:        uuid.NewString(),
		Role:      RoleBot,
		Content:   reply.Text,
		Data:      reply.Data,
		Timestamp: s.now(),
		IsError:   reply.IsError,
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

// Close ends the session. In-flight work is discarded on completion.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = false
	s.messages = nil
}
