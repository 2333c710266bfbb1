package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestTimerSchedulerRunsTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTimerScheduler()
	var ran atomic.Int32
	id := s.Schedule("s1", 5*time.Millisecond, func() { ran.Add(1) })
	require.NotZero(t, id)

	require.NoError(t, s.Wait(waitCtx(t)))
	assert.Equal(t, int32(1), ran.Load())
	assert.Zero(t, s.Pending())
	assert.False(t, s.Cancel(id), "task already ran")
}

func TestTimerSchedulerWaitCoversChainedTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTimerScheduler()
	var steps atomic.Int32
	s.Schedule("s1", 2*time.Millisecond, func() {
		steps.Add(1)
		s.Schedule("s1", 2*time.Millisecond, func() { steps.Add(1) })
	})

	require.NoError(t, s.Wait(waitCtx(t)))
	assert.Equal(t, int32(2), steps.Load())
}

func TestTimerSchedulerCancelSession(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTimerScheduler()
	var other atomic.Int32
	var cancelled atomic.Int32
	s.Schedule("gone", 20*time.Millisecond, func() { cancelled.Add(1) })
	s.Schedule("gone", 20*time.Millisecond, func() { cancelled.Add(1) })
	s.Schedule("kept", 5*time.Millisecond, func() { other.Add(1) })

	assert.Equal(t, 2, s.CancelSession("gone"))
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Zero(t, cancelled.Load())
	assert.Equal(t, int32(1), other.Load())
}

func TestTimerSchedulerStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTimerScheduler()
	var ran atomic.Int32
	s.Schedule("s1", 20*time.Millisecond, func() { ran.Add(1) })
	s.Stop()

	assert.Zero(t, s.Schedule("s1", time.Millisecond, func() { ran.Add(1) }))
	require.NoError(t, s.Wait(waitCtx(t)))
	assert.Zero(t, ran.Load())
}

func TestTimerSchedulerRecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTimerScheduler()
	s.Schedule("s1", time.Millisecond, func() { panic("boom") })
	require.NoError(t, s.Wait(waitCtx(t)))
}

func TestTimerSchedulerWaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTimerScheduler()
	s.Schedule("s1", time.Hour, func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
	s.Stop()
}

func TestManualSchedulerAdvance(t *testing.T) {
	m := NewManualScheduler()
	var order []string

	m.Schedule("s1", 1500*time.Millisecond, func() { order = append(order, "reply") })
	m.Schedule("s1", 600*time.Millisecond, func() {
		order = append(order, "confirm")
		m.Schedule("s1", 100*time.Millisecond, func() { order = append(order, "chained") })
	})

	m.Advance(500 * time.Millisecond)
	assert.Empty(t, order)

	m.Advance(300 * time.Millisecond)
	assert.Equal(t, []string{"confirm", "chained"}, order)

	m.Advance(time.Second)
	assert.Equal(t, []string{"confirm", "chained", "reply"}, order)
	assert.Zero(t, m.Pending())
}

func TestManualSchedulerSameDueKeepsOrder(t *testing.T) {
	m := NewManualScheduler()
	var order []int
	for i := range 5 {
		m.Schedule("s1", time.Second, func() { order = append(order, i) })
	}
	m.RunAll()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestManualSchedulerCancel(t *testing.T) {
	m := NewManualScheduler()
	ran := 0
	id := m.Schedule("a", time.Second, func() { ran++ })
	m.Schedule("b", time.Second, func() { ran++ })
	m.Schedule("b", time.Second, func() { ran++ })

	assert.True(t, m.Cancel(id))
	assert.False(t, m.Cancel(id))
	assert.Equal(t, 2, m.CancelSession("b"))
	m.RunAll()
	assert.Zero(t, ran)

	m.Stop()
	assert.Zero(t, m.Schedule("a", 0, func() { ran++ }))
}
