package summary

import (
	"reflect"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/router"
)

// completedState plays a multiple-choice quiz to the end, answering the
// first `correct` questions right and the rest wrong.
func completedState(t *testing.T, correct int) qz.State {
	t.Helper()
	cfg := qz.DefaultConfig()
	cfg.TargetLabel = "Hindi"
	m := qz.NewMachine(cfg, nil)

	st, err := m.Apply(m.Initial(), qz.Initialize{Segments: []qz.Segment{
		{Original: "one", Translated: "ek"},
		{Original: "two", Translated: "do"},
		{Original: "three", Translated: "teen"},
		{Original: "four", Translated: "chaar"},
	}})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	for i := 0; !st.Completed(); i++ {
		choice := st.Expected()
		if i >= correct {
			for _, c := range st.Question.Choices {
				if c != choice {
					choice = c
					break
				}
			}
		}
		if st, err = m.Apply(st, qz.SubmitAnswer{Choice: choice}); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if st, err = m.Apply(st, qz.Advance{}); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	return st
}

func TestSummaryView_Perfect(t *testing.T) {
	s := New(completedState(t, 4))
	view := s.View(100, 40)

	for _, want := range []string{"Quiz complete!", "Perfect run!", "Correct: 4 / 4", "100%", "Language: Hindi"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryView_Partial(t *testing.T) {
	s := New(completedState(t, 1))
	view := s.View(100, 40)

	if !strings.Contains(view, "Correct: 1 / 4") {
		t.Error("expected 1 of 4 in the view")
	}
	if !strings.Contains(view, "Keep practicing.") {
		t.Error("expected the low-score verdict")
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "Perfect run!"},
		{0.75, "Great job!"},
		{0.5, "Getting there."},
		{0.1, "Keep practicing."},
	}
	for _, tt := range tests {
		if got, _ := verdict(tt.ratio); got != tt.want {
			t.Errorf("verdict(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestSummaryTitle(t *testing.T) {
	s := New(completedState(t, 4))
	if s.Title() != "Quiz Summary" {
		t.Errorf("expected title 'Quiz Summary', got %q", s.Title())
	}
	if !s.HandlesEscape() {
		t.Error("expected the summary to handle Esc itself")
	}
}

// runSequence executes a tea.Sequence command and returns its messages.
func runSequence(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	// The sequence message type is unexported; it is a slice of commands.
	seq := reflect.ValueOf(cmd())
	if seq.Kind() != reflect.Slice {
		t.Fatalf("expected a sequence, got %s", seq.Kind())
	}
	var out []tea.Msg
	for i := range seq.Len() {
		if c, ok := seq.Index(i).Interface().(tea.Cmd); ok && c != nil {
			out = append(out, c())
		}
	}
	return out
}

func TestSummaryRetry(t *testing.T) {
	s := New(completedState(t, 2))
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})

	msgs := runSequence(t, cmd)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if _, ok := msgs[0].(router.PopScreenMsg); !ok {
		t.Errorf("first message = %T, want PopScreenMsg", msgs[0])
	}
	if _, ok := msgs[1].(RetryMsg); !ok {
		t.Errorf("second message = %T, want RetryMsg", msgs[1])
	}
}

func TestSummaryBack(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
		{Code: 'q', Text: "q"},
	} {
		s := New(completedState(t, 4))
		_, cmd := s.Update(key)

		msgs := runSequence(t, cmd)
		if len(msgs) != 2 {
			t.Fatalf("%s: expected 2 messages, got %d", key.String(), len(msgs))
		}
		if _, ok := msgs[1].(BackMsg); !ok {
			t.Errorf("%s: second message = %T, want BackMsg", key.String(), msgs[1])
		}
	}
}

func TestSummaryIgnoresOtherKeys(t *testing.T) {
	s := New(completedState(t, 4))
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil {
		t.Error("expected no command for an unbound key")
	}
}
