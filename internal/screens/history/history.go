package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
	"github.com/abhisek/trans/internal/ui/layout"
	"github.com/abhisek/trans/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.QuizSessionSummary
	Err      error
}

// HistoryScreen lists finished quizzes, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.QuizSessionSummary
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.eventRepo.QueryQuizSessions(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Quiz History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(fmt.Sprintf("\n\nError: %s", s.errMsg), width, theme.Error)
	}
	if !s.loaded {
		return layout.Centered("\n\n  Loading history...", width, theme.TextDim)
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Translate something and press Ctrl+Q!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-5s  %s→%s  %d/%d correct  %.0f%%",
			prefix,
			sess.Timestamp.Format("Jan 02, 2006"),
			sess.Mode,
			sess.SourceLang, sess.TargetLang,
			sess.Correct, sess.Answered,
			sess.Accuracy()*100)

		style := lipgloss.NewStyle().Foreground(accuracyColor(sess.Accuracy()))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range details(sess) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func details(sess store.QuizSessionSummary) []string {
	out := []string{
		fmt.Sprintf("%s → %s, %s direction",
			translate.LanguageLabel(sess.SourceLang), translate.LanguageLabel(sess.TargetLang), sess.Direction),
		fmt.Sprintf("Duration %d:%02d, %d segments", sess.DurationSecs/60, sess.DurationSecs%60, sess.RunLength),
	}
	if sess.Mode == "timed" {
		out = append(out, fmt.Sprintf("%d points, best streak %d", sess.Points, sess.BestStreak))
	}
	return out
}

func accuracyColor(acc float64) color.Color {
	switch {
	case acc >= 0.8:
		return theme.Success
	case acc >= 0.5:
		return theme.Warning
	default:
		return theme.Text
	}
}
