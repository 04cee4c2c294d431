package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/layout"
	"github.com/abhisek/trans/internal/ui/theme"
)

// RetryMsg asks the quiz below the summary to start over.
type RetryMsg struct{}

// BackMsg tells the quiz below the summary that the user is done with it.
type BackMsg struct{}

// SummaryScreen shows the result of a completed quiz.
type SummaryScreen struct {
	state qz.State
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates a summary for the final quiz state.
func New(final qz.State) *SummaryScreen {
	return &SummaryScreen{state: final}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Retry"},
		{Key: "Enter", Description: "Back"},
	}
}

func (s *SummaryScreen) HandlesEscape() bool { return true }

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "r":
		return s, tea.Sequence(pop, func() tea.Msg { return RetryMsg{} })
	case "enter", "esc", "q":
		return s, tea.Sequence(pop, func() tea.Msg { return BackMsg{} })
	}
	return s, nil
}

func pop() tea.Msg { return router.PopScreenMsg{} }

// verdict picks the headline for a score ratio.
func verdict(ratio float64) (string, lipgloss.Style) {
	switch {
	case ratio >= 1:
		return "Perfect run!", theme.Correct
	case ratio >= 0.7:
		return "Great job!", theme.Correct
	case ratio >= 0.4:
		return "Getting there.", lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	default:
		return "Keep practicing.", theme.Incorrect
	}
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.state.Result()
	headline, style := verdict(res.Ratio)
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered("Quiz complete!", width, theme.Primary))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(headline)))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(
		fmt.Sprintf("Correct: %d / %d        Score: %.0f%%", res.Correct, res.Total, res.Ratio*100),
		width, theme.Text))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", res.Correct, res.Total, cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	if label := s.state.TargetLabel; label != "" {
		b.WriteString(layout.Centered("Language: "+label, width, theme.TextDim))
		b.WriteString("\n")
	}
	b.WriteString(layout.Centered("Press R to try again or Enter to go back", width, theme.TextDim))
	return b.String()
}
