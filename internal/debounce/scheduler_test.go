package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) live() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// fireAll runs every timer that has not been stopped.
func (c *fakeClock) fireAll() {
	for _, t := range c.live() {
		t.stopped = true
		t.f()
	}
}

func TestScheduler_BurstCoalescesIntoOneRun(t *testing.T) {
	clock := &fakeClock{}
	var runs int32
	s := New(500*time.Millisecond, func() { atomic.AddInt32(&runs, 1) }, WithAfterFunc(clock.AfterFunc))

	for i := 0; i < 10; i++ {
		s.Trigger()
	}
	assert.Equal(t, Pending, s.State())
	require.Len(t, clock.live(), 1, "only one timer may be pending")
	assert.Equal(t, 500*time.Millisecond, clock.live()[0].d)

	clock.fireAll()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.Equal(t, Idle, s.State())
}

func TestScheduler_CancelPreventsRun(t *testing.T) {
	clock := &fakeClock{}
	var runs int32
	s := New(time.Second, func() { atomic.AddInt32(&runs, 1) }, WithAfterFunc(clock.AfterFunc))

	s.Trigger()
	timer := clock.timers[0]
	s.Cancel()
	assert.Equal(t, Idle, s.State())

	// a callback that raced with Stop must still be ignored
	timer.f()
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestScheduler_StaleCallbackAfterRearmIgnored(t *testing.T) {
	clock := &fakeClock{}
	var runs int32
	s := New(time.Second, func() { atomic.AddInt32(&runs, 1) }, WithAfterFunc(clock.AfterFunc))

	s.Trigger()
	first := clock.timers[0]
	s.Trigger()

	first.f()
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
	assert.Equal(t, Pending, s.State())

	clock.fireAll()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestScheduler_TriggerWhileRunningQueuesOneFollowUp(t *testing.T) {
	clock := &fakeClock{}
	var runs int32
	var s *Scheduler
	s = New(time.Second, func() {
		n := atomic.AddInt32(&runs, 1)
		if n == 1 {
			assert.Equal(t, Running, s.State())
			// new input arrives mid-run and its timer expires before the run ends
			s.Trigger()
			s.Trigger()
			assert.True(t, s.Armed())
			clock.fireAll()
			assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "no second run may start while one is in flight")
		}
	}, WithAfterFunc(clock.AfterFunc))

	s.Trigger()
	clock.fireAll()

	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
	assert.Equal(t, Idle, s.State())
}

func TestScheduler_CancelDropsQueuedFollowUp(t *testing.T) {
	clock := &fakeClock{}
	var runs int32
	var s *Scheduler
	s = New(time.Second, func() {
		if atomic.AddInt32(&runs, 1) == 1 {
			s.Trigger()
			clock.fireAll()
			s.Cancel()
		}
	}, WithAfterFunc(clock.AfterFunc))

	s.Trigger()
	clock.fireAll()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.Equal(t, Idle, s.State())
}

func TestScheduler_RealTimer(t *testing.T) {
	done := make(chan struct{}, 4)
	s := New(20*time.Millisecond, func() { done <- struct{}{} })

	s.Trigger()
	s.Trigger()
	s.Trigger()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	select {
	case <-done:
		t.Fatal("burst must produce a single run")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNew_DefaultQuiet(t *testing.T) {
	s := New(0, func() {})
	assert.Equal(t, DefaultQuiet, s.Quiet())
	assert.Equal(t, "idle", s.State().String())
}
