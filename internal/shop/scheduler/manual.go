package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"
)

type manualTask struct {
	id        TaskID
	sessionID string
	due       time.Duration
	fn        func()
}

// ManualScheduler runs tasks only when virtual time is advanced. Tasks with
// the same due time run in scheduling order.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     TaskID
	tasks   []*manualTask
	stopped bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Schedule(sessionID string, delay time.Duration, fn func()) TaskID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return 0
	}
	m.seq++
	m.tasks = append(m.tasks, &manualTask{id: m.seq, sessionID: sessionID, due: m.now + delay, fn: fn})
	return m.seq
}

// Advance moves virtual time forward by d, running every task that falls due,
// including tasks scheduled by tasks run during the advance.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	if m.now < target {
		m.now = target
	}
	m.mu.Unlock()
}

// RunAll advances until nothing is pending.
func (m *ManualScheduler) RunAll() {
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return
		}
		last := m.tasks[0].due
		for _, t := range m.tasks {
			last = max(last, t.due)
		}
		d := last - m.now
		m.mu.Unlock()
		m.Advance(d)
	}
}

func (m *ManualScheduler) popDue(target time.Duration) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due == m.tasks[j].due {
			return m.tasks[i].id < m.tasks[j].id
		}
		return m.tasks[i].due < m.tasks[j].due
	})
	if len(m.tasks) == 0 || m.tasks[0].due > target {
		return nil
	}
	t := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.now = max(m.now, t.due)
	return t
}

func (m *ManualScheduler) Cancel(id TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.id == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (m *ManualScheduler) CancelSession(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tasks[:0]
	n := 0
	for _, t := range m.tasks {
		if t.sessionID == sessionID {
			n++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return n
}

func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Wait runs every pending task.
func (m *ManualScheduler) Wait(ctx context.Context) error {
	m.RunAll()
	return ctx.Err()
}

func (m *ManualScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.tasks = nil
}

var _ Scheduler = (*ManualScheduler)(nil)
