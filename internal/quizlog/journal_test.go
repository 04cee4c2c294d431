package quizlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/shuffle"
	"github.com/abhisek/trans/internal/store"
)

type memRepo struct {
	sessions []store.QuizSessionEventData
	answers  []store.QuizAnswerEventData
	err      error
}

func (m *memRepo) AppendQuizSession(_ context.Context, d store.QuizSessionEventData) error {
	m.sessions = append(m.sessions, d)
	return m.err
}

func (m *memRepo) AppendQuizAnswer(_ context.Context, d store.QuizAnswerEventData) error {
	m.answers = append(m.answers, d)
	return m.err
}

// fakeClock advances one second per reading.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func segments() []quiz.Segment {
	return []quiz.Segment{
		{Original: "hello", Translated: "hola"},
		{Original: "cat", Translated: "gato"},
		{Original: "dog", Translated: "perro"},
	}
}

func newSession(mode quiz.Mode) *quiz.Session {
	cfg := quiz.DefaultConfig()
	cfg.Mode = mode
	return quiz.NewSession(quiz.NewMachine(cfg, shuffle.NewRand(7)), quiz.WithManualTimer())
}

func TestJournal_MultipleChoiceRun(t *testing.T) {
	sess := newSession(quiz.ModeMultipleChoice)
	defer sess.Close()
	repo := &memRepo{}
	clock := &fakeClock{t: time.Unix(0, 0)}
	j := Attach(sess, repo, "s-1", "en", "es", nil, WithClock(clock.now))

	st, _ := sess.Dispatch(quiz.Initialize{Segments: segments()})
	for !st.Completed() {
		st, _ = sess.Dispatch(quiz.SubmitAnswer{Choice: st.Expected()})
		st, _ = sess.Dispatch(quiz.Advance{})
	}
	j.Finish(st)

	if len(repo.sessions) != 2 {
		t.Fatalf("session events = %d, want start and end", len(repo.sessions))
	}
	start, end := repo.sessions[0], repo.sessions[1]
	if start.Action != store.QuizActionStart || start.RunLength != 3 || start.Mode != "mc" {
		t.Errorf("start = %+v", start)
	}
	if end.Action != store.QuizActionEnd || end.Correct != 3 || end.Answered != 3 {
		t.Errorf("end = %+v", end)
	}
	if end.DurationSecs <= 0 {
		t.Errorf("duration = %d", end.DurationSecs)
	}
	if end.SessionID != "s-1" || end.SourceLang != "en" || end.TargetLang != "es" {
		t.Errorf("end ids = %+v", end)
	}

	if len(repo.answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(repo.answers))
	}
	for _, a := range repo.answers {
		if !a.Correct || a.Prompt == "" || a.Expected != a.Given {
			t.Errorf("answer = %+v", a)
		}
		if a.TimeMs <= 0 {
			t.Errorf("answer time = %d", a.TimeMs)
		}
	}
}

func TestJournal_RetryRecordsRetryAndRestart(t *testing.T) {
	sess := newSession(quiz.ModeMultipleChoice)
	defer sess.Close()
	repo := &memRepo{}
	Attach(sess, repo, "s-2", "en", "es", nil)

	st, _ := sess.Dispatch(quiz.Initialize{Segments: segments()})
	_, _ = sess.Dispatch(quiz.SubmitAnswer{Choice: st.Expected()})
	_, _ = sess.Dispatch(quiz.Retry{})

	var actions []string
	for _, s := range repo.sessions {
		actions = append(actions, s.Action)
	}
	want := []string{store.QuizActionStart, store.QuizActionRetry, store.QuizActionStart}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", actions, want)
		}
	}
	if repo.sessions[1].Answered != 1 {
		t.Errorf("retry should carry the abandoned score: %+v", repo.sessions[1])
	}
}

func TestJournal_TimedFinish(t *testing.T) {
	sess := newSession(quiz.ModeTimedFreeText)
	defer sess.Close()
	repo := &memRepo{}
	j := Attach(sess, repo, "s-3", "auto", "es", nil)

	st, _ := sess.Dispatch(quiz.Initialize{Segments: segments()})
	st, _ = sess.Dispatch(quiz.SubmitFreeText{Text: st.Expected()})
	st, _ = sess.Dispatch(quiz.TimerExpire{Generation: st.Generation})

	if len(repo.answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(repo.answers))
	}
	if !repo.answers[1].TimedOut {
		t.Errorf("second answer should be a timeout: %+v", repo.answers[1])
	}

	j.Finish(st)
	j.Finish(st)
	if len(repo.sessions) != 2 {
		t.Fatalf("session events = %d, want start and one end", len(repo.sessions))
	}
	end := repo.sessions[1]
	if end.Action != store.QuizActionEnd || end.Direction != "forward" || end.Points == 0 || end.BestStreak != 1 {
		t.Errorf("end = %+v", end)
	}

	// Detached: further events are not recorded.
	_, _ = sess.Dispatch(quiz.SubmitFreeText{Text: "x"})
	if len(repo.answers) != 2 {
		t.Errorf("answers after finish = %d", len(repo.answers))
	}
}

func TestJournal_FinishWithoutAnswersWritesNothing(t *testing.T) {
	sess := newSession(quiz.ModeMultipleChoice)
	defer sess.Close()
	repo := &memRepo{}
	j := Attach(sess, repo, "s-4", "en", "es", nil)

	st, _ := sess.Dispatch(quiz.Initialize{Segments: segments()})
	j.Finish(st)
	if len(repo.sessions) != 1 {
		t.Errorf("session events = %d, want only start", len(repo.sessions))
	}
}

func TestJournal_RepoErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sess := newSession(quiz.ModeMultipleChoice)
	defer sess.Close()
	Attach(sess, &memRepo{err: errors.New("disk full")}, "s-5", "en", "es", zap.New(core))

	if _, err := sess.Dispatch(quiz.Initialize{Segments: segments()}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if logs.FilterMessage("failed to record quiz event").Len() != 1 {
		t.Error("expected a warning for the failed write")
	}
}

// waitDone fails the test when done is not closed in time.
func waitDone(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

func TestJournal_FinishWhileDispatchesQueue(t *testing.T) {
	sess := newSession(quiz.ModeMultipleChoice)
	defer sess.Close()
	repo := &memRepo{}
	j := Attach(sess, repo, "s-6", "en", "es", nil)

	// Hold the journal so the first dispatch parks inside its subscriber.
	j.mu.Lock()
	first := make(chan struct{})
	go func() {
		defer close(first)
		_, _ = sess.Dispatch(quiz.Initialize{Segments: segments()})
	}()
	deadline := time.Now().Add(2 * time.Second)
	for sess.Snapshot().Phase != quiz.PhaseInProgress {
		if time.Now().After(deadline) {
			j.mu.Unlock()
			t.Fatal("initialize was not applied")
		}
		time.Sleep(time.Millisecond)
	}

	second := make(chan struct{})
	go func() {
		defer close(second)
		_, _ = sess.Dispatch(quiz.ToggleHint{})
	}()
	time.Sleep(20 * time.Millisecond)

	// A queued dispatcher must not hold the session lock.
	snap := make(chan struct{})
	go func() {
		defer close(snap)
		sess.Snapshot()
	}()
	waitDone(t, snap, "Snapshot")
	j.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		j.Finish(sess.Snapshot())
	}()
	waitDone(t, finished, "Finish")
	waitDone(t, first, "first dispatch")
	waitDone(t, second, "second dispatch")

	if _, err := sess.Dispatch(quiz.ToggleHint{}); err != nil {
		t.Fatalf("dispatch after finish: %v", err)
	}
}
