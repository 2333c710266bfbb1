package conversation

import (
	"github.com/Chative-storefront/server/internal/shop/model"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

const (
	DefaultTitle    = "当前对话"
	NewChatTitle    = "新对话"
	titleEllipsis   = "..."
	defaultTitleLen = 10
)

// Log holds every session of one UI tree, newest first, and tracks which one
// is visible. Like cart.Store it is not safe for concurrent use.
type Log struct {
	sessions   []*model.Session
	activeID   string
	greeting   string
	titleRunes int
}

// NewLog creates a log with a single greeted session.
func NewLog(greeting string, titleRunes int) *Log {
	if titleRunes <= 0 {
		titleRunes = defaultTitleLen
	}
	l := &Log{greeting: greeting, titleRunes: titleRunes}
	l.start(DefaultTitle)
	return l
}

func (l *Log) start(title string) *model.Session {
	s := model.NewSession(title, model.NewTextMessage(model.RoleAgent, l.greeting))
	l.sessions = append([]*model.Session{s}, l.sessions...)
	l.activeID = s.ID
	return s
}

// NewSession starts a greeted session, lists it first and makes it active.
func (l *Log) NewSession() *model.Session {
	s := l.start(NewChatTitle)
	logx.Debug().Str("session_id", s.ID).Msg("session created")
	return s
}

// Restore replaces the sessions with previously stored ones. The first one
// becomes active. An empty list leaves the log untouched.
func (l *Log) Restore(sessions []*model.Session) {
	if len(sessions) == 0 {
		return
	}
	l.sessions = sessions
	l.activeID = sessions[0].ID
}

func (l *Log) Sessions() []*model.Session {
	return l.sessions
}

func (l *Log) Session(id string) (*model.Session, bool) {
	for _, s := range l.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Active returns the visible session.
func (l *Log) Active() *model.Session {
	if s, ok := l.Session(l.activeID); ok {
		return s
	}
	return l.sessions[0]
}

// Switch makes id the visible session. Unknown ids are ignored.
func (l *Log) Switch(id string) bool {
	if _, ok := l.Session(id); !ok {
		return false
	}
	l.activeID = id
	return true
}

// Append adds msg to the end of a session.
func (l *Log) Append(sessionID string, msg *model.Message) bool {
	s, ok := l.Session(sessionID)
	if !ok {
		return false
	}
	s.Messages = append(s.Messages, msg)
	return true
}

// AppendUser adds a user message and, for the first one, derives the title.
func (l *Log) AppendUser(sessionID string, msg *model.Message) bool {
	s, ok := l.Session(sessionID)
	if !ok {
		return false
	}
	if s.UserMessageCount() == 0 && msg.Content != "" {
		s.Title = l.titleFor(msg.Content)
	}
	s.Messages = append(s.Messages, msg)
	return true
}

func (l *Log) titleFor(text string) string {
	r := []rune(text)
	if len(r) <= l.titleRunes {
		return text
	}
	return string(r[:l.titleRunes]) + titleEllipsis
}

// locate finds a message in any session.
func (l *Log) locate(messageID string) (*model.Session, *model.Message, bool) {
	for _, s := range l.sessions {
		if m, ok := s.Find(messageID); ok {
			return s, m, true
		}
	}
	return nil, nil, false
}
