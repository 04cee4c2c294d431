package quiz

import (
	"fmt"
	"slices"

	"github.com/abhisek/trans/internal/similarity"
)

// Mode selects the quiz variant.
type Mode int

const (
	// ModeMultipleChoice runs once through the segments and completes.
	ModeMultipleChoice Mode = iota

	// ModeTimedFreeText cycles through the segments against a countdown.
	ModeTimedFreeText
)

func (m Mode) String() string {
	switch m {
	case ModeTimedFreeText:
		return "timed"
	default:
		return "mc"
	}
}

// ParseMode parses the short mode names used by the CLI and the API.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "mc", "multiple-choice", "multiple_choice":
		return ModeMultipleChoice, nil
	case "timed", "free-text", "free_text":
		return ModeTimedFreeText, nil
	}
	return 0, fmt.Errorf("unknown quiz mode %q", s)
}

// Direction selects which side of a segment is prompted in timed mode.
type Direction int

const (
	// DirectionForward prompts the original and expects the translation.
	DirectionForward Direction = iota

	// DirectionReverse prompts the translation and expects the original.
	DirectionReverse
)

func (d Direction) String() string {
	if d == DirectionReverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection parses "forward"/"normal" and "reverse".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "forward", "normal":
		return DirectionForward, nil
	case "reverse":
		return DirectionReverse, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Phase is the outer quiz state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "loading"
	}
}

// Step is the per-question state inside PhaseInProgress.
type Step int

const (
	StepUnanswered Step = iota
	StepAnswered
)

func (s Step) String() string {
	if s == StepAnswered {
		return "answered"
	}
	return "unanswered"
}

// Question is the state of the question currently on screen.
type Question struct {
	// Index is the position in the run.
	Index int

	// Choices holds the shuffled answer options. Empty in timed mode.
	Choices []string

	// Selected is the recorded choice. Only meaningful once answered.
	Selected string

	// HintVisible toggles the transliteration hint.
	HintVisible bool
}

// Score tracks progress for both modes.
type Score struct {
	// Correct counts correct answers.
	Correct int

	// Answered counts submitted answers, timeouts excluded.
	Answered int

	// Points is the timed-mode score.
	Points int

	// Streak counts consecutive correct timed answers.
	Streak int

	// BestStreak is the highest streak reached since the last reset.
	BestStreak int

	// TimeLeft is the remaining countdown in seconds.
	TimeLeft int
}

// Feedback describes the most recent answer or timeout.
type Feedback struct {
	Correct    bool
	Expected   string
	Given      string
	Similarity float64
	Tier       similarity.Tier
	TimedOut   bool

	// Index is the run position the feedback refers to.
	Index int

	// Milestone is set when a correct answer lands the streak on a milestone.
	Milestone int
}

// State is an immutable snapshot of a quiz. Slices reachable from a State
// are never written after the snapshot is produced; callers must treat them
// as read-only.
type State struct {
	Mode      Mode
	Direction Direction
	Phase     Phase
	Step      Step

	// TargetLabel names the translation language for prompt text.
	TargetLabel string

	// SourceLabel names the original language for reverse prompts.
	SourceLabel string

	Question Question
	Score    Score

	// Input is the free-text answer being typed in timed mode.
	Input string

	// Last is the feedback for the most recent answer, nil before the first.
	Last *Feedback

	// Generation changes whenever the current question is replaced. A
	// countdown tick is only honored for the generation it was started for.
	Generation uint64

	// TimeLimit is the countdown length in seconds.
	TimeLimit int

	eligible []Segment
	run      []Segment
}

// Len returns the run length.
func (s State) Len() int {
	return len(s.run)
}

// Run returns a copy of the current run order.
func (s State) Run() []Segment {
	return slices.Clone(s.run)
}

// Current returns the segment for the current question.
func (s State) Current() (Segment, bool) {
	if s.Phase != PhaseInProgress || s.Question.Index < 0 || s.Question.Index >= len(s.run) {
		return Segment{}, false
	}
	return s.run[s.Question.Index], true
}

// Expected returns the answer the current question is graded against.
func (s State) Expected() string {
	seg, ok := s.Current()
	if !ok {
		return ""
	}
	return expectedFor(seg, s.Mode, s.Direction)
}

func expectedFor(seg Segment, mode Mode, dir Direction) string {
	if mode == ModeTimedFreeText && dir == DirectionReverse {
		return seg.Original
	}
	return seg.Translated
}

// HintAvailable reports whether the current segment has a transliteration.
func (s State) HintAvailable() bool {
	seg, ok := s.Current()
	return ok && seg.Transliteration != ""
}

// Hint returns the transliteration when it is visible and present.
func (s State) Hint() string {
	if !s.Question.HintVisible {
		return ""
	}
	seg, ok := s.Current()
	if !ok {
		return ""
	}
	return seg.Transliteration
}

// TimerActive reports whether a countdown should be running.
func (s State) TimerActive() bool {
	return s.Mode == ModeTimedFreeText && s.Phase == PhaseInProgress && s.Step == StepUnanswered && len(s.run) > 0
}

// Completed reports whether the run is finished.
func (s State) Completed() bool {
	return s.Phase == PhaseCompleted
}

// Prompt is what the presenter shows for the current question.
type Prompt struct {
	Phrase      string
	Instruction string
	Hint        string
	Choices     []string
}

// Prompt builds the presenter view of the current question.
func (s State) Prompt() Prompt {
	seg, ok := s.Current()
	if !ok {
		return Prompt{}
	}

	p := Prompt{
		Phrase:      seg.Original,
		Instruction: "Translate this segment into " + labelOr(s.TargetLabel, "the target language"),
		Hint:        s.Hint(),
		Choices:     s.Question.Choices,
	}
	if s.Mode == ModeTimedFreeText && s.Direction == DirectionReverse {
		p.Phrase = seg.Translated
		p.Instruction = "Translate this segment into " + labelOr(s.SourceLabel, "the original language")
	}
	return p
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

// Result is the final score of a completed run.
type Result struct {
	Correct int
	Total   int
	Ratio   float64
}

// Result returns the score summary. Ratio is correct / run length.
func (s State) Result() Result {
	r := Result{Correct: s.Score.Correct, Total: len(s.run)}
	if r.Total > 0 {
		r.Ratio = float64(r.Correct) / float64(r.Total)
	}
	return r
}
