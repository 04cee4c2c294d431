package quiz

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Change is delivered to subscribers after every processed event.
type Change struct {
	Event Event
	Prev  State
	Next  State
	Err   error
}

// NewFeedback returns the feedback produced by this change, if any.
func (c Change) NewFeedback() (*Feedback, bool) {
	if c.Next.Last != nil && c.Next.Last != c.Prev.Last {
		return c.Next.Last, true
	}
	return nil, false
}

// Session is a live quiz: the current snapshot, its subscribers and the
// countdown that drives timed mode. Events are applied one at a time in the
// order Dispatch is called.
type Session struct {
	mu      sync.Mutex
	notify  sync.Mutex
	machine *Machine
	state   State
	subs    map[int]func(Change)
	nextSub int
	closed  bool

	autoTimer bool
	interval  time.Duration
	countdown *Countdown
	logger    *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for soft transition errors.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTickInterval overrides the one-second countdown period.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithManualTimer disables the internal countdown. The owner is then
// responsible for dispatching Tick events stamped with State.Generation.
func WithManualTimer() Option {
	return func(s *Session) { s.autoTimer = false }
}

// NewSession creates a session in the loading state.
func NewSession(m *Machine, opts ...Option) *Session {
	s := &Session{
		machine:   m,
		state:     m.Initial(),
		subs:      make(map[int]func(Change)),
		autoTimer: true,
		interval:  time.Second,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Machine returns the session's transition function.
func (s *Session) Machine() *Machine {
	return s.machine
}

// Subscribe registers fn for every subsequent change. Subscribers run on
// the dispatching goroutine, in event order, and must not call Dispatch.
func (s *Session) Subscribe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Dispatch applies ev and returns the resulting snapshot.
//
// The notify lock is taken before the state lock and the state lock is
// released before subscribers run, so a dispatcher waiting for earlier
// subscribers never holds the state lock.
func (s *Session) Dispatch(ev Event) (State, error) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	if s.closed {
		st := s.state
		s.mu.Unlock()
		return st, ErrSessionClosed
	}

	prev := s.state
	next, err := s.machine.Apply(prev, ev)
	s.state = next
	s.rescheduleLocked(next)

	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err != nil {
		s.logSoft(ev, err)
	}

	change := Change{Event: ev, Prev: prev, Next: next, Err: err}
	for _, fn := range subs {
		fn(change)
	}
	return next, err
}

func (s *Session) logSoft(ev Event, err error) {
	switch {
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrEmptyAnswer):
		s.logger.Debug("quiz event ignored", zap.String("event", eventName(ev)), zap.Error(err))
	case errors.Is(err, ErrNoEligibleSegments):
		s.logger.Info("quiz has no eligible segments")
	}
}

// rescheduleLocked keeps the countdown aligned with the current question.
// Any generation change cancels the old timer so it cannot fire a stale
// expiry against a question that has already moved on.
func (s *Session) rescheduleLocked(st State) {
	want := s.autoTimer && st.TimerActive()

	if s.countdown != nil && (!want || s.countdown.Generation() != st.Generation) {
		s.countdown.Stop()
		s.countdown = nil
	}
	if want && s.countdown == nil {
		s.countdown = StartCountdown(context.Background(), s.interval, st.Generation, s.fire)
	}
}

func (s *Session) fire(gen uint64) {
	_, _ = s.Dispatch(Tick{Generation: gen})
}

// Close stops the countdown and rejects further events.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	s.subs = make(map[int]func(Change))
}

func eventName(ev Event) string {
	switch ev.(type) {
	case Initialize:
		return "initialize"
	case SubmitAnswer:
		return "submit_answer"
	case Advance:
		return "advance"
	case Retry:
		return "retry"
	case ToggleHint:
		return "toggle_hint"
	case Tick:
		return "tick"
	case TimerExpire:
		return "timer_expire"
	case SubmitFreeText:
		return "submit_free_text"
	case SetInput:
		return "set_input"
	case Previous:
		return "previous"
	case SetDirection:
		return "set_direction"
	}
	return "unknown"
}
