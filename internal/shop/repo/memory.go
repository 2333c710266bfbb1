package repo

import (
	"context"
	"errors"
	"sort"
	"sync"

	errx "github.com/Chative-storefront/server/internal/core/error"
	"github.com/Chative-storefront/server/internal/shop/model"
)

var errSessionNotFound = errors.New("session not found")

// MemorySessionRepository keeps deep copies of sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*model.Session)}
}

func (r *MemorySessionRepository) SaveSession(_ context.Context, s *model.Session) error {
	if s == nil {
		return errx.Invalid("nil session")
	}
	cp := s.Clone()
	r.mu.Lock()
	r.sessions[s.ID] = cp
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) LoadSession(_ context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, errx.New(errSessionNotFound, errx.CodeNotFound, "session "+sessionID+" not found")
	}
	return s.Clone(), nil
}

func (r *MemorySessionRepository) ListSessions(_ context.Context) ([]*model.Session, error) {
	r.mu.RLock()
	out := make([]*model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	r.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(sessions []*model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
