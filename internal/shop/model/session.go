package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is one conversation thread. It exclusively owns its messages.
type Session struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	CreatedAt  time.Time  `json:"createdAt"`
	Messages   []*Message `json:"messages"`
	Processing bool       `json:"-"`
	Recording  bool       `json:"-"`
}

func NewSession(title string, greeting *Message) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	if greeting != nil {
		s.Messages = append(s.Messages, greeting)
	}
	return s
}

// Last returns the tail message or nil for an empty session.
func (s *Session) Last() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// Find returns the message with the given id.
func (s *Session) Find(messageID string) (*Message, bool) {
	for _, m := range s.Messages {
		if m.ID == messageID {
			return m, true
		}
	}
	return nil, false
}

// UserMessageCount counts messages sent by the user.
func (s *Session) UserMessageCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Clone deep-copies the session so callers can read it outside the engine lock.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Messages = make([]*Message, len(s.Messages))
	for i, m := range s.Messages {
		cp.Messages[i] = m.Clone()
	}
	return &cp
}

// SessionRepository stores session snapshots. Implementations must tolerate
// repeated saves of the same session, since drafts are mutated in place.
type SessionRepository interface {
	// SaveSession replaces the stored copy of the session.
	SaveSession(ctx context.Context, s *Session) error

	// LoadSession returns the stored session or an errx not-found error.
	LoadSession(ctx context.Context, sessionID string) (*Session, error)

	// ListSessions returns every stored session, newest first.
	ListSessions(ctx context.Context) ([]*Session, error)
}
