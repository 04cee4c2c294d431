package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/trans/internal/shuffle"
	"github.com/abhisek/trans/internal/similarity"
)

// Config controls a Machine.
type Config struct {
	// Mode selects multiple-choice or timed free-text.
	Mode Mode

	// Choices is the number of options per multiple-choice question,
	// including the correct one.
	Choices int

	// TimeLimit is the countdown per timed question in seconds.
	TimeLimit int

	// TargetLabel and SourceLabel are display-only language names.
	TargetLabel string
	SourceLabel string

	// Direction is the initial timed-mode direction.
	Direction Direction
}

// DefaultConfig returns the standard four-choice, fifteen-second setup.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeMultipleChoice,
		Choices:   4,
		TimeLimit: 15,
	}
}

// Machine is the pure transition function of a quiz. It holds only
// configuration and the injected random source; all quiz state lives in
// the State values passed through Apply.
type Machine struct {
	cfg Config
	rng *rand.Rand
}

// NewMachine creates a Machine. A nil rng is replaced with a time-seeded one.
func NewMachine(cfg Config, rng *rand.Rand) *Machine {
	def := DefaultConfig()
	if cfg.Choices < 1 {
		cfg.Choices = def.Choices
	}
	if cfg.TimeLimit < 1 {
		cfg.TimeLimit = def.TimeLimit
	}
	if rng == nil {
		rng = shuffle.NewRandFromTime()
	}
	return &Machine{cfg: cfg, rng: rng}
}

// Config returns the machine configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// Initial returns the loading snapshot a session starts from.
func (m *Machine) Initial() State {
	return State{
		Mode:        m.cfg.Mode,
		Direction:   m.cfg.Direction,
		Phase:       PhaseLoading,
		TargetLabel: m.cfg.TargetLabel,
		SourceLabel: m.cfg.SourceLabel,
		TimeLimit:   m.cfg.TimeLimit,
		Score:       Score{TimeLeft: m.cfg.TimeLimit},
	}
}

// Apply computes the snapshot that follows s after ev. The returned error is
// always one of the soft sentinels in this package; when it is
// ErrInvalidTransition or ErrEmptyAnswer the returned state equals s.
func (m *Machine) Apply(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Initialize:
		return m.initialize(s, ev.Segments)
	case SubmitAnswer:
		return m.submitAnswer(s, ev.Choice)
	case Advance:
		return m.advance(s)
	case Retry:
		return m.retry(s)
	case ToggleHint:
		return m.toggleHint(s)
	case Tick:
		return m.tick(s, ev.Generation)
	case TimerExpire:
		return m.timerExpire(s, ev.Generation)
	case SubmitFreeText:
		return m.submitFreeText(s, ev.Text)
	case SetInput:
		return m.setInput(s, ev.Text)
	case Previous:
		return m.previous(s)
	case SetDirection:
		return m.setDirection(s, ev.Direction)
	}
	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func invalid(s State, what string) (State, error) {
	return s, fmt.Errorf("%w: %s in %s/%s", ErrInvalidTransition, what, s.Phase, s.Step)
}

func (m *Machine) initialize(s State, segments []Segment) (State, error) {
	eligible := FilterEligible(segments)
	if len(eligible) == 0 {
		next := m.Initial()
		next.Direction = s.Direction
		next.Generation = s.Generation + 1
		return next, ErrNoEligibleSegments
	}
	return m.start(s, eligible), nil
}

// start builds a fresh run over eligible, keeping only the direction of s.
func (m *Machine) start(s State, eligible []Segment) State {
	run := shuffle.Shuffle(eligible, m.rng)
	return State{
		Mode:        m.cfg.Mode,
		Direction:   s.Direction,
		Phase:       PhaseInProgress,
		Step:        StepUnanswered,
		TargetLabel: m.cfg.TargetLabel,
		SourceLabel: m.cfg.SourceLabel,
		TimeLimit:   m.cfg.TimeLimit,
		Question:    m.buildQuestion(run, 0),
		Score:       Score{TimeLeft: m.cfg.TimeLimit},
		Generation:  s.Generation + 1,
		eligible:    eligible,
		run:         run,
	}
}

// buildQuestion assembles the question at index. In multiple-choice mode the
// choices are the correct translation plus distractors picked from the
// other distinct translations, shuffled together again.
func (m *Machine) buildQuestion(run []Segment, index int) Question {
	q := Question{Index: index}
	if m.cfg.Mode != ModeMultipleChoice || index < 0 || index >= len(run) {
		return q
	}

	correct := run[index].Translated
	// Duplicate translations would show the same option twice.
	seen := map[string]bool{correct: true}
	others := make([]string, 0, len(run)-1)
	for i, seg := range run {
		if i != index && !seen[seg.Translated] {
			seen[seg.Translated] = true
			others = append(others, seg.Translated)
		}
	}

	choices := append([]string{correct}, shuffle.Pick(others, m.cfg.Choices-1, m.rng)...)
	q.Choices = shuffle.Shuffle(choices, m.rng)
	return q
}

func (m *Machine) submitAnswer(s State, choice string) (State, error) {
	if s.Mode != ModeMultipleChoice || s.Phase != PhaseInProgress || s.Step != StepUnanswered {
		return invalid(s, "submit answer")
	}

	expected := s.Expected()
	correct := choice == expected

	next := s
	next.Step = StepAnswered
	next.Question.Selected = choice
	next.Score.Answered++
	fb := &Feedback{
		Correct:  correct,
		Expected: expected,
		Given:    choice,
		Index:    s.Question.Index,
		Tier:     similarity.TierFail,
	}
	if correct {
		next.Score.Correct++
		fb.Similarity = 1
		fb.Tier = similarity.TierStrong
	}
	next.Last = fb
	return next, nil
}

func (m *Machine) advance(s State) (State, error) {
	if s.Mode != ModeMultipleChoice || s.Phase != PhaseInProgress || s.Step != StepAnswered {
		return invalid(s, "advance")
	}

	next := s
	next.Generation++
	idx := s.Question.Index + 1
	if idx >= len(s.run) {
		next.Phase = PhaseCompleted
		next.Question.HintVisible = false
		return next, nil
	}

	next.Step = StepUnanswered
	next.Question = m.buildQuestion(s.run, idx)
	return next, nil
}

func (m *Machine) retry(s State) (State, error) {
	if s.Phase == PhaseLoading || len(s.eligible) == 0 {
		return invalid(s, "retry")
	}
	return m.start(s, s.eligible), nil
}

func (m *Machine) toggleHint(s State) (State, error) {
	if s.Phase != PhaseInProgress {
		return invalid(s, "toggle hint")
	}
	next := s
	next.Question.HintVisible = !s.Question.HintVisible
	return next, nil
}

func (m *Machine) tick(s State, gen uint64) (State, error) {
	if !s.TimerActive() || gen != s.Generation {
		return invalid(s, "tick")
	}
	next := s
	next.Score.TimeLeft--
	if next.Score.TimeLeft <= 0 {
		return m.expire(next), nil
	}
	return next, nil
}

func (m *Machine) timerExpire(s State, gen uint64) (State, error) {
	if !s.TimerActive() || gen != s.Generation {
		return invalid(s, "timer expire")
	}
	return m.expire(s), nil
}

// expire times out the current question and moves on cyclically.
func (m *Machine) expire(s State) State {
	next := s
	next.Last = &Feedback{
		Expected: s.Expected(),
		Given:    s.Input,
		Index:    s.Question.Index,
		Tier:     similarity.TierFail,
		TimedOut: true,
	}
	next.Score.Streak = 0
	return m.moveTo(next, (s.Question.Index+1)%len(s.run))
}

// moveTo switches the timed question to idx with a fresh countdown.
func (m *Machine) moveTo(s State, idx int) State {
	s.Input = ""
	s.Score.TimeLeft = m.cfg.TimeLimit
	s.Question = m.buildQuestion(s.run, idx)
	s.Generation++
	return s
}

func (m *Machine) submitFreeText(s State, text string) (State, error) {
	if !s.TimerActive() {
		return invalid(s, "submit free text")
	}
	if strings.TrimSpace(text) == "" {
		return s, ErrEmptyAnswer
	}

	expected := s.Expected()
	score := similarity.Score(text, expected)
	tier := similarity.Classify(score)

	next := s
	next.Score.Answered++
	fb := &Feedback{
		Correct:    tier.Passed(),
		Expected:   expected,
		Given:      text,
		Similarity: score,
		Tier:       tier,
		Index:      s.Question.Index,
	}
	if tier.Passed() {
		next.Score.Correct++
		next.Score.Points += s.Score.TimeLeft * 10
		next.Score.Streak++
		if next.Score.Streak > next.Score.BestStreak {
			next.Score.BestStreak = next.Score.Streak
		}
		if IsStreakMilestone(next.Score.Streak) {
			fb.Milestone = next.Score.Streak
		}
	} else {
		next.Score.Streak = 0
	}
	next.Last = fb

	return m.moveTo(next, (s.Question.Index+1)%len(s.run)), nil
}

func (m *Machine) setInput(s State, text string) (State, error) {
	if !s.TimerActive() {
		return invalid(s, "set input")
	}
	next := s
	next.Input = text
	return next, nil
}

func (m *Machine) previous(s State) (State, error) {
	if !s.TimerActive() {
		return invalid(s, "previous")
	}
	n := len(s.run)
	return m.moveTo(s, (s.Question.Index-1+n)%n), nil
}

func (m *Machine) setDirection(s State, d Direction) (State, error) {
	if s.Mode != ModeTimedFreeText || s.Direction == d {
		return invalid(s, "set direction")
	}
	next := s
	next.Direction = d
	if !next.TimerActive() {
		return next, nil
	}
	return m.moveTo(next, s.Question.Index), nil
}
