package quiz

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/trans/internal/shuffle"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSession_DispatchAndSubscribe(t *testing.T) {
	sess := NewSession(newTestMachine(ModeMultipleChoice, 1))
	defer sess.Close()

	var mu sync.Mutex
	var changes []Change
	cancel := sess.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
	})

	st, err := sess.Dispatch(Initialize{Segments: spanishSegments()})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	st, _ = sess.Dispatch(SubmitAnswer{Choice: st.Expected()})
	_, err = sess.Dispatch(SubmitAnswer{Choice: "again"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	cancel()
	_, _ = sess.Dispatch(Advance{})

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	if _, ok := changes[0].Event.(Initialize); !ok {
		t.Errorf("first change event = %T", changes[0].Event)
	}
	fb, ok := changes[1].NewFeedback()
	if !ok || !fb.Correct {
		t.Errorf("second change feedback = %+v, %v", fb, ok)
	}
	if _, ok := changes[2].NewFeedback(); ok {
		t.Error("rejected submit should not carry new feedback")
	}
	if changes[2].Err == nil {
		t.Error("rejected submit should carry its soft error")
	}
	if st.Score.Correct != 1 {
		t.Errorf("correct = %d, want 1", st.Score.Correct)
	}
	if got := sess.Snapshot(); got.Phase != PhaseInProgress || got.Question.Index != 1 {
		t.Errorf("snapshot = %v index %d", got.Phase, got.Question.Index)
	}
}

func TestSession_TimedCountdownTicks(t *testing.T) {
	m := newTestMachine(ModeTimedFreeText, 2)
	sess := NewSession(m, WithTickInterval(5*time.Millisecond))
	defer sess.Close()

	if _, err := sess.Dispatch(Initialize{Segments: spanishSegments()}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return sess.Snapshot().Score.TimeLeft < 15
	})
}

func TestSession_CountdownExpiresAndWraps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeTimedFreeText
	cfg.TimeLimit = 2
	sess := NewSession(NewMachine(cfg, shuffle.NewRand(3)), WithTickInterval(5*time.Millisecond))
	defer sess.Close()

	_, _ = sess.Dispatch(Initialize{Segments: spanishSegments()[:2]})

	// Two expiries over a two-segment run wrap back around.
	var expiries int
	var mu sync.Mutex
	sess.Subscribe(func(c Change) {
		if fb, ok := c.NewFeedback(); ok && fb.TimedOut {
			mu.Lock()
			expiries++
			mu.Unlock()
		}
	})

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return expiries >= 2
	})

	s := sess.Snapshot()
	if s.Phase != PhaseInProgress {
		t.Errorf("phase = %v, want in_progress", s.Phase)
	}
}

func TestSession_IndexChangeInvalidatesTimer(t *testing.T) {
	m := newTestMachine(ModeTimedFreeText, 4)
	sess := NewSession(m, WithTickInterval(time.Hour))
	defer sess.Close()

	st, _ := sess.Dispatch(Initialize{Segments: spanishSegments()})
	oldGen := st.Generation

	st, _ = sess.Dispatch(SubmitFreeText{Text: st.Expected()})
	if st.Generation == oldGen {
		t.Fatal("generation should change with the question")
	}

	// A tick scheduled for the old question arrives late.
	after, err := sess.Dispatch(Tick{Generation: oldGen})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if after.Score.TimeLeft != 15 {
		t.Errorf("stale tick changed countdown to %d", after.Score.TimeLeft)
	}

	sess.mu.Lock()
	cd := sess.countdown
	sess.mu.Unlock()
	if cd == nil || cd.Generation() != st.Generation {
		t.Errorf("countdown not rescheduled for generation %d", st.Generation)
	}
}

func TestSession_ManualTimerStartsNothing(t *testing.T) {
	sess := NewSession(newTestMachine(ModeTimedFreeText, 5), WithManualTimer())
	defer sess.Close()

	_, _ = sess.Dispatch(Initialize{Segments: spanishSegments()})
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.countdown != nil {
		t.Error("manual timer session started a countdown")
	}
}

func TestSession_CloseStopsTimer(t *testing.T) {
	sess := NewSession(newTestMachine(ModeTimedFreeText, 6), WithTickInterval(5*time.Millisecond))
	_, _ = sess.Dispatch(Initialize{Segments: spanishSegments()})

	sess.mu.Lock()
	cd := sess.countdown
	sess.mu.Unlock()
	if cd == nil {
		t.Fatal("expected a running countdown")
	}

	sess.Close()
	select {
	case <-cd.Done():
	case <-time.After(time.Second):
		t.Fatal("countdown goroutine still running after Close")
	}

	before := sess.Snapshot()
	time.Sleep(30 * time.Millisecond)
	if after := sess.Snapshot(); after.Score.TimeLeft != before.Score.TimeLeft {
		t.Errorf("state changed after Close: %d -> %d", before.Score.TimeLeft, after.Score.TimeLeft)
	}
	if _, err := sess.Dispatch(Retry{}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("err = %v, want ErrSessionClosed", err)
	}
}

func TestSession_NewSegmentsRestartTimer(t *testing.T) {
	sess := NewSession(newTestMachine(ModeTimedFreeText, 7), WithTickInterval(time.Hour))
	defer sess.Close()

	st, _ := sess.Dispatch(Initialize{Segments: spanishSegments()})
	first := st.Generation

	st, _ = sess.Dispatch(Initialize{Segments: spanishSegments()[:3]})
	if st.Generation == first {
		t.Fatal("new segments should start a new generation")
	}

	st, err := sess.Dispatch(Initialize{})
	if !errors.Is(err, ErrNoEligibleSegments) {
		t.Fatalf("err = %v", err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.countdown != nil {
		t.Error("countdown should stop when the quiz falls back to loading")
	}
	if st.Phase != PhaseLoading {
		t.Errorf("phase = %v", st.Phase)
	}
}
