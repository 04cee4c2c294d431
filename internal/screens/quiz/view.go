package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/layout"
	"github.com/abhisek/trans/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(fmt.Sprintf("\n\n\n%s\n\nPress Esc to go back.", s.errMsg), width, theme.Error)
	}
	if s.state.Phase == qz.PhaseLoading {
		return layout.Centered("\n\n\n  Preparing your quiz...", width, theme.TextDim)
	}
	if s.state.Completed() {
		return layout.Centered("\n\n\n  Quiz complete!", width, theme.TextDim)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if s.state.Mode == qz.ModeTimedFreeText {
		bar := components.Countdown(s.state.Score.TimeLeft, s.state.TimeLimit, components.ContentWidth(width))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(s.renderPrompt(width))
	b.WriteString("\n")

	if s.state.Mode == qz.ModeTimedFreeText {
		b.WriteString(s.renderTimed(width))
	} else {
		b.WriteString(s.renderChoices(width))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(s.notice, width, theme.Warning))
	}
	return b.String()
}

func (s *QuizScreen) renderInfoLine(width int) string {
	st := s.state
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", st.Question.Index+1, st.Len()))

	var right string
	if st.Mode == qz.ModeTimedFreeText {
		right = fmt.Sprintf("%s  ★ %d  🔥 %d (best %d)  ✓ %d/%d",
			st.Direction, st.Score.Points, st.Score.Streak, st.Score.BestStreak,
			st.Score.Correct, st.Score.Answered)
	} else {
		right = fmt.Sprintf("✓ %d correct", st.Score.Correct)
	}
	right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *QuizScreen) renderPrompt(width int) string {
	p := s.state.Prompt()
	var b strings.Builder
	b.WriteString(layout.Centered(p.Instruction, width, theme.TextDim))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(theme.Phrase.Render(p.Phrase)))
	b.WriteString("\n")
	switch {
	case p.Hint != "":
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(theme.Transliteration.Render(p.Hint)))
		b.WriteString("\n")
	case s.state.HintAvailable():
		b.WriteString(layout.Centered("(hint available)", width, theme.Border))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *QuizScreen) renderChoices(width int) string {
	st := s.state
	c := components.Choices{
		Options:  st.Question.Choices,
		Cursor:   s.cursor,
		Answered: st.Step == qz.StepAnswered,
	}

	var b strings.Builder
	if c.Answered && st.Last != nil {
		c.Expected = st.Last.Expected
		c.Picked = st.Last.Given
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, c.View()))
	b.WriteString("\n")

	if c.Answered && st.Last != nil {
		if st.Last.Correct {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Correct.Render("Correct!")))
		} else {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Incorrect.Render("Not quite")))
			b.WriteString("\n")
			b.WriteString(layout.Centered("Answer: "+st.Last.Expected, width, theme.TextDim))
		}
		b.WriteString("\n\n")
		next := "Press N for the next question"
		if st.Question.Index == st.Len()-1 {
			next = "Press N to see your score"
		}
		b.WriteString(layout.Centered(next, width, theme.TextDim))
		return b.String()
	}

	b.WriteString(layout.Centered("Select (1-4) or use arrows + Enter", width, theme.TextDim))
	return b.String()
}

func (s *QuizScreen) renderTimed(width int) string {
	var b strings.Builder
	field := components.Card(s.input.View(), components.ContentWidth(width), true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, field))
	b.WriteString("\n\n")

	fb := s.state.Last
	if fb == nil {
		return b.String()
	}

	color := theme.TierColor(fb.Tier)
	if fb.TimedOut {
		b.WriteString(layout.Centered("⏰ Time's up!", width, theme.Error))
	} else {
		b.WriteString(layout.Centered(fmt.Sprintf("%s  (%.0f%% match)", fb.Tier.Message(), fb.Similarity*100), width, color))
	}
	b.WriteString("\n")
	if !fb.Correct {
		b.WriteString(layout.Centered("Answer was: "+fb.Expected, width, theme.TextDim))
		b.WriteString("\n")
	}
	if fb.Milestone > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
				Render(fmt.Sprintf("🔥 %d in a row! Next milestone: %d", fb.Milestone, qz.NextStreakMilestone(fb.Milestone)))))
		b.WriteString("\n")
	}
	return b.String()
}
