package recent

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/screens/translate"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/ui/layout"
	"github.com/abhisek/trans/internal/ui/theme"
)

type loadedMsg struct {
	entries []store.Entry
	err     error
}

// RecentScreen lists the latest translations. Enter translates the
// selected entry again.
type RecentScreen struct {
	deps     screen.Deps
	entries  []store.Entry
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*RecentScreen)(nil)
var _ screen.KeyHintProvider = (*RecentScreen)(nil)

// New creates a recent-translations screen.
func New(deps screen.Deps) *RecentScreen {
	return &RecentScreen{deps: deps}
}

func (s *RecentScreen) Init() tea.Cmd {
	repo := s.deps.Recent
	return func() tea.Msg {
		list, err := repo.List(context.Background())
		return loadedMsg{entries: list, err: err}
	}
}

func (s *RecentScreen) Title() string {
	return "Recent"
}

func (s *RecentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Translate again"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RecentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.entries = msg.entries
		s.selected = min(s.selected, max(len(s.entries)-1, 0))
		return s, nil

	case router.ResumeMsg:
		return s, s.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = min(s.selected+1, max(len(s.entries)-1, 0))
		case "enter":
			if s.selected < len(s.entries) && s.deps.Translator != nil {
				next := translate.NewFromEntry(s.deps, s.entries[s.selected])
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *RecentScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered("\n\nError: "+s.errMsg, width, theme.Error)
	}
	if !s.loaded {
		return layout.Centered("\n\n  Loading recent translations...", width, theme.TextDim)
	}
	if len(s.entries) == 0 {
		return layout.Centered("\n\n  Nothing translated yet.", width, theme.TextDim)
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.entries {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		when := e.CreatedAt.Format("Jan 02 15:04")
		line := fmt.Sprintf("%s%s  %s → %s", prefix, when, e.Input, e.Output)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
