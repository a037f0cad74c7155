// Package debounce coalesces bursts of triggers into a single run after
// a quiet period.
//
// A Scheduler is Idle, Pending (one timer armed) or Running (the job is
// executing on the timer goroutine). Triggering restarts the timer; it
// never accumulates. Only one run is ever in flight: a timer that fires
// during a run queues exactly one follow-up run.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used when none is configured.
const DefaultQuiet = 500 * time.Millisecond

type State int

const (
	Idle State = iota
	Pending
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Timer is a stoppable single-shot timer.
type Timer interface {
	Stop() bool
}

// AfterFunc arms f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Scheduler)

// WithAfterFunc replaces the timer facility.
func WithAfterFunc(after AfterFunc) Option {
	return func(s *Scheduler) { s.after = after }
}

type Scheduler struct {
	mu      sync.Mutex
	quiet   time.Duration
	after   AfterFunc
	job     func()
	timer   Timer
	seq     uint64
	armed   bool
	running bool
	queued  bool
}

// New returns an idle Scheduler that runs job after quiet.
func New(quiet time.Duration, job func(), opts ...Option) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	s := &Scheduler{quiet: quiet, after: realAfterFunc, job: job}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quiet returns the quiet period.
func (s *Scheduler) Quiet() time.Duration {
	return s.quiet
}

// State reports Running while the job executes, Pending while a timer
// is armed and Idle otherwise.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.running:
		return Running
	case s.armed:
		return Pending
	default:
		return Idle
	}
}

// Armed reports whether a timer is pending, including a follow-up timer
// armed while a run is in flight.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Trigger cancels any armed timer and arms a new one.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.armed = true
	seq := s.seq
	s.timer = s.after(s.quiet, func() { s.fire(seq) })
}

// Cancel stops the armed timer and drops a queued follow-up. A run that
// already started is left to finish.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.queued = false
}

func (s *Scheduler) stopLocked() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = false
}

func (s *Scheduler) fire(seq uint64) {
	s.mu.Lock()
	// a timer that lost the race with Stop still delivers its callback
	if seq != s.seq || !s.armed {
		s.mu.Unlock()
		return
	}
	s.armed = false
	s.timer = nil
	if s.running {
		s.queued = true
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.run()
}

func (s *Scheduler) run() {
	for {
		s.job()

		s.mu.Lock()
		if !s.queued {
			s.running = false
			s.mu.Unlock()
			return
		}
		s.queued = false
		s.mu.Unlock()
	}
}
