package scheduler

import (
	"context"
	"sync"
	"time"

	logx "github.com/Chative-storefront/server/pkg/logger"
)

// TaskID identifies a scheduled task. The zero value is never issued.
type TaskID uint64

// Scheduler runs fire-once tasks after a delay. Every task belongs to a
// session so that the pending replies of a session can be cancelled together.
type Scheduler interface {
	// Schedule registers fn to run after delay. It returns 0 once stopped.
	Schedule(sessionID string, delay time.Duration, fn func()) TaskID

	// Cancel drops a pending task and reports whether it was still pending.
	Cancel(id TaskID) bool

	// CancelSession drops every pending task of the session.
	CancelSession(sessionID string) int

	// Pending returns the number of tasks not yet run.
	Pending() int

	// Wait blocks until no task is pending or running.
	Wait(ctx context.Context) error

	// Stop cancels everything and rejects further tasks.
	Stop()
}

type timerTask struct {
	sessionID string
	timer     *time.Timer
}

// TimerScheduler backs tasks with time.AfterFunc.
type TimerScheduler struct {
	mu      sync.Mutex
	seq     TaskID
	tasks   map[TaskID]*timerTask
	running int
	stopped bool
	changed chan struct{}
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		tasks:   make(map[TaskID]*timerTask),
		changed: make(chan struct{}),
	}
}

func (s *TimerScheduler) Schedule(sessionID string, delay time.Duration, fn func()) TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		logx.Warn().Str("session_id", sessionID).Msg("scheduler stopped, task dropped")
		return 0
	}

	s.seq++
	id := s.seq
	t := &timerTask{sessionID: sessionID}
	s.tasks[id] = t
	t.timer = time.AfterFunc(delay, func() { s.fire(id, fn) })
	return id
}

func (s *TimerScheduler) fire(id TaskID, fn func()) {
	s.mu.Lock()
	t, live := s.tasks[id]
	if !live {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, id)
	s.running++
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logx.Error().Interface("panic", r).Str("session_id", t.sessionID).Msg("scheduled task panicked")
		}
		s.mu.Lock()
		s.running--
		s.notifyLocked()
		s.mu.Unlock()
	}()

	fn()
}

func (s *TimerScheduler) Cancel(id TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(id)
}

func (s *TimerScheduler) CancelSession(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, t := range s.tasks {
		if t.sessionID == sessionID && s.cancelLocked(id) {
			n++
		}
	}
	if n > 0 {
		logx.Debug().Str("session_id", sessionID).Int("cancelled", n).Msg("session tasks cancelled")
	}
	return n
}

func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *TimerScheduler) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 && s.running == 0 {
			s.mu.Unlock()
			return nil
		}
		ch := s.changed
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id := range s.tasks {
		s.cancelLocked(id)
	}
}

func (s *TimerScheduler) cancelLocked(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, id)
	s.notifyLocked()
	return true
}

func (s *TimerScheduler) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

var _ Scheduler = (*TimerScheduler)(nil)
