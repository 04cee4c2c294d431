package quiz

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	qz "github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/quizlog"
	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/screens/summary"
	"github.com/abhisek/trans/internal/translate"
	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/layout"
)

// Params selects what a quiz screen practises.
type Params struct {
	Segments   []qz.Segment
	Mode       qz.Mode
	Direction  qz.Direction
	SourceLang string
	TargetLang string

	// Standalone quits the program when the quiz is left. Set for quizzes
	// launched from the command line.
	Standalone bool
}

// QuizScreen runs a quiz session. The countdown is driven by tea.Tick so
// every state change happens on the UI goroutine.
type QuizScreen struct {
	params  Params
	session *qz.Session
	journal *quizlog.Journal
	logger  *zap.Logger

	state  qz.State
	cursor int
	input  components.TextInput
	errMsg string
	notice string

	tickGen     uint64
	tickPending bool
	closed      bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a quiz screen. The session starts when the screen is pushed.
func New(deps screen.Deps, p Params) *QuizScreen {
	cfg := qz.DefaultConfig()
	cfg.Mode = p.Mode
	cfg.Direction = p.Direction
	if deps.Quiz.Choices >= 2 {
		cfg.Choices = deps.Quiz.Choices
	}
	if deps.Quiz.TimeLimit > 0 {
		cfg.TimeLimit = deps.Quiz.TimeLimit
	}
	cfg.TargetLabel = languageLabel(p.TargetLang)
	cfg.SourceLabel = languageLabel(p.SourceLang)

	logger := deps.Log()
	sess := qz.NewSession(qz.NewMachine(cfg, nil), qz.WithLogger(logger), qz.WithManualTimer())
	journal := quizlog.Attach(sess, deps.Events, uuid.NewString(), p.SourceLang, p.TargetLang, logger)

	return &QuizScreen{
		params:  p,
		session: sess,
		journal: journal,
		logger:  logger,
		state:   sess.Snapshot(),
		input:   components.NewTextInput("Type the translation...", 200),
	}
}

func languageLabel(code string) string {
	if code == "" || code == translate.Auto {
		return ""
	}
	return translate.LanguageLabel(code)
}

func (s *QuizScreen) Init() tea.Cmd {
	st, err := s.session.Dispatch(qz.Initialize{Segments: s.params.Segments})
	s.state = st
	if errors.Is(err, qz.ErrNoEligibleSegments) {
		s.errMsg = "This translation has no segments to quiz on."
		return nil
	}
	return tea.Batch(s.ensureTick(), s.input.Init())
}

func (s *QuizScreen) Title() string {
	if s.state.Mode == qz.ModeTimedFreeText {
		return "Timed Quiz"
	}
	return "Quiz"
}

// Status shows the running score in the header.
func (s *QuizScreen) Status() string {
	sc := s.state.Score
	if s.state.Mode == qz.ModeTimedFreeText {
		return fmt.Sprintf("★ %d  🔥 %d  ", sc.Points, sc.Streak)
	}
	return fmt.Sprintf("✓ %d/%d  ", sc.Correct, s.state.Len())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.state.Mode == qz.ModeTimedFreeText {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Direction"},
			{Key: "Ctrl+P", Description: "Previous"},
			{Key: "Ctrl+T", Description: "Hint"},
			{Key: "Ctrl+R", Description: "Restart"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	if s.state.Step == qz.StepAnswered {
		return []layout.KeyHint{
			{Key: "N", Description: "Next"},
			{Key: "H", Description: "Hint"},
			{Key: "R", Description: "Restart"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Choose"},
		{Key: "H", Description: "Hint"},
		{Key: "R", Description: "Restart"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.handleTick(msg)

	case summary.RetryMsg:
		return s, s.dispatch(qz.Retry{})

	case summary.BackMsg:
		return s, s.leave()

	case tea.KeyMsg:
		if s.errMsg != "" {
			return s, nil
		}
		if s.state.Mode == qz.ModeTimedFreeText {
			return s, s.handleTimedKey(msg)
		}
		return s, s.handleChoiceKey(msg)
	}

	if s.state.Mode == qz.ModeTimedFreeText {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// leave pops the quiz, or quits when it is the only screen.
func (s *QuizScreen) leave() tea.Cmd {
	if s.params.Standalone {
		return tea.Quit
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *QuizScreen) handleChoiceKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "h":
		return s.dispatch(qz.ToggleHint{})
	case "r":
		return s.dispatch(qz.Retry{})
	}

	if s.state.Step == qz.StepAnswered {
		switch key {
		case "n", "enter", "right", "l", "space":
			return s.dispatch(qz.Advance{})
		}
		return nil
	}

	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(s.state.Question.Choices)-1, 0))
	case "enter":
		return s.choose(s.cursor)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(s.state.Question.Choices) {
			return s.choose(n - 1)
		}
	}
	return nil
}

func (s *QuizScreen) choose(i int) tea.Cmd {
	choices := s.state.Question.Choices
	if i < 0 || i >= len(choices) {
		return nil
	}
	s.cursor = i
	return s.dispatch(qz.SubmitAnswer{Choice: choices[i]})
}

func (s *QuizScreen) handleTimedKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return s.dispatch(qz.SubmitFreeText{Text: s.input.Value()})
	case "tab":
		dir := qz.DirectionReverse
		if s.state.Direction == qz.DirectionReverse {
			dir = qz.DirectionForward
		}
		return s.dispatch(qz.SetDirection{Direction: dir})
	case "ctrl+p":
		return s.dispatch(qz.Previous{})
	case "ctrl+t":
		return s.dispatch(qz.ToggleHint{})
	case "ctrl+r":
		return s.dispatch(qz.Retry{})
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != s.state.Input {
		return tea.Batch(cmd, s.dispatch(qz.SetInput{Text: s.input.Value()}))
	}
	return cmd
}

// dispatch applies ev and reconciles the screen with the new state.
func (s *QuizScreen) dispatch(ev qz.Event) tea.Cmd {
	prev := s.state
	st, err := s.session.Dispatch(ev)
	if errors.Is(err, qz.ErrSessionClosed) {
		return nil
	}
	s.state = st
	s.notice = ""
	if errors.Is(err, qz.ErrEmptyAnswer) {
		s.notice = "Type an answer first."
	}

	if st.Generation != prev.Generation || st.Question.Index != prev.Question.Index {
		s.cursor = 0
		s.input.Reset()
	}

	var cmds []tea.Cmd
	if st.Completed() && !prev.Completed() {
		cmds = append(cmds, func() tea.Msg {
			return router.PushScreenMsg{Screen: summary.New(st)}
		})
	}
	cmds = append(cmds, s.ensureTick())
	return tea.Batch(cmds...)
}

// ensureTick schedules one tick for the current generation unless one is
// already in flight.
func (s *QuizScreen) ensureTick() tea.Cmd {
	st := s.state
	if !st.TimerActive() || (s.tickPending && s.tickGen == st.Generation) {
		return nil
	}
	s.tickGen = st.Generation
	s.tickPending = true
	gen := st.Generation
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (s *QuizScreen) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen == s.tickGen {
		s.tickPending = false
	}
	if s.closed {
		return nil
	}
	if msg.gen != s.state.Generation {
		// A tick for a question that has already moved on.
		return s.ensureTick()
	}
	return s.dispatch(qz.Tick{Generation: msg.gen})
}

// Close records the end of the quiz and stops the session.
func (s *QuizScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.journal.Finish(s.session.Snapshot())
	s.session.Close()
	s.logger.Debug("quiz screen closed", zap.String("session_id", s.journal.SessionID()))
}
