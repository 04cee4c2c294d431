// Package quizlog persists the progress of a live quiz as store events.
package quizlog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/store"
)

// Repo is the part of store.EventRepo the journal writes to.
type Repo interface {
	AppendQuizSession(ctx context.Context, data store.QuizSessionEventData) error
	AppendQuizAnswer(ctx context.Context, data store.QuizAnswerEventData) error
}

// Journal records a quiz session's start, answers, retries and end.
type Journal struct {
	mu     sync.Mutex
	repo   Repo
	logger *zap.Logger
	now    func() time.Time

	id         string
	sourceLang string
	targetLang string

	started       time.Time
	questionShown time.Time
	running       bool
	cancel        func()
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// Attach subscribes a journal to sess. sessionID ties the stored events
// together; the language codes are stored with each session event.
func Attach(sess *quiz.Session, repo Repo, sessionID, sourceLang, targetLang string, logger *zap.Logger, opts ...Option) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Journal{
		repo:       repo,
		logger:     logger,
		now:        time.Now,
		id:         sessionID,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
	for _, opt := range opts {
		opt(j)
	}
	j.cancel = sess.Subscribe(j.observe)
	return j
}

// SessionID returns the id events are recorded under.
func (j *Journal) SessionID() string { return j.id }

func (j *Journal) observe(c quiz.Change) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()

	switch c.Event.(type) {
	case quiz.Initialize:
		if c.Next.Phase == quiz.PhaseInProgress {
			j.startLocked(now, store.QuizActionStart, c.Next)
		}
		return
	case quiz.Retry:
		if c.Err == nil {
			if j.running {
				j.sessionLocked(store.QuizActionRetry, c.Prev, now)
			}
			j.startLocked(now, store.QuizActionStart, c.Next)
		}
		return
	}

	if fb, ok := c.NewFeedback(); ok {
		j.answerLocked(c.Prev, fb, now)
	}
	if c.Next.Question.Index != c.Prev.Question.Index || c.Next.Generation != c.Prev.Generation {
		j.questionShown = now
	}
	if c.Next.Completed() && !c.Prev.Completed() && j.running {
		j.sessionLocked(store.QuizActionEnd, c.Next, now)
		j.running = false
	}
}

func (j *Journal) startLocked(now time.Time, action string, st quiz.State) {
	j.started = now
	j.questionShown = now
	j.running = true
	j.write(func(ctx context.Context) error {
		return j.repo.AppendQuizSession(ctx, j.sessionData(action, st, now))
	})
}

func (j *Journal) sessionLocked(action string, st quiz.State, now time.Time) {
	j.write(func(ctx context.Context) error {
		return j.repo.AppendQuizSession(ctx, j.sessionData(action, st, now))
	})
}

func (j *Journal) answerLocked(prev quiz.State, fb *quiz.Feedback, now time.Time) {
	data := store.QuizAnswerEventData{
		SessionID:     j.id,
		QuestionIndex: fb.Index,
		Prompt:        prev.Prompt().Phrase,
		Expected:      fb.Expected,
		Given:         fb.Given,
		Correct:       fb.Correct,
		Similarity:    fb.Similarity,
		TimedOut:      fb.TimedOut,
		TimeMs:        now.Sub(j.questionShown).Milliseconds(),
	}
	j.write(func(ctx context.Context) error {
		return j.repo.AppendQuizAnswer(ctx, data)
	})
}

func (j *Journal) sessionData(action string, st quiz.State, now time.Time) store.QuizSessionEventData {
	d := store.QuizSessionEventData{
		SessionID:  j.id,
		Action:     action,
		Mode:       st.Mode.String(),
		SourceLang: j.sourceLang,
		TargetLang: j.targetLang,
		RunLength:  st.Len(),
	}
	if st.Mode == quiz.ModeTimedFreeText {
		d.Direction = st.Direction.String()
	}
	if action != store.QuizActionStart {
		d.Answered = st.Score.Answered
		d.Correct = st.Score.Correct
		d.Points = st.Score.Points
		d.BestStreak = st.Score.BestStreak
		d.DurationSecs = int(now.Sub(j.started).Seconds())
	}
	return d
}

func (j *Journal) write(fn func(ctx context.Context) error) {
	if j.repo == nil {
		return
	}
	if err := fn(context.Background()); err != nil {
		j.logger.Warn("failed to record quiz event", zap.String("session_id", j.id), zap.Error(err))
	}
}

// Finish records the end of a quiz that was left before completion, as
// timed quizzes always are, and detaches from the session. It is safe to
// call more than once.
func (j *Journal) Finish(final quiz.State) {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	if j.running {
		j.running = false
		if final.Score.Answered > 0 {
			j.sessionLocked(store.QuizActionEnd, final, j.now())
		}
	}
	j.mu.Unlock()

	// Unsubscribing takes the session lock; never do it while holding j.mu.
	if cancel != nil {
		cancel()
	}
}
