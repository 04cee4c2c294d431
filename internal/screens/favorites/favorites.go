package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/ui/layout"
	"github.com/abhisek/trans/internal/ui/theme"
)

type loadedMsg struct {
	entries []store.Entry
	err     error
}

type removedMsg struct {
	id  int
	err error
}

// FavoritesScreen lists starred translations.
type FavoritesScreen struct {
	deps     screen.Deps
	entries  []store.Entry
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*FavoritesScreen)(nil)
var _ screen.KeyHintProvider = (*FavoritesScreen)(nil)

// New creates a favorites screen.
func New(deps screen.Deps) *FavoritesScreen {
	return &FavoritesScreen{deps: deps}
}

func (s *FavoritesScreen) Init() tea.Cmd {
	return s.load()
}

func (s *FavoritesScreen) load() tea.Cmd {
	repo := s.deps.Favorites
	return func() tea.Msg {
		list, err := repo.List(context.Background())
		return loadedMsg{entries: list, err: err}
	}
}

func (s *FavoritesScreen) Title() string {
	return "Favorites"
}

func (s *FavoritesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FavoritesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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

	case removedMsg:
		if msg.err != nil && !errors.Is(msg.err, store.ErrNotFound) {
			s.deps.Log().Warn("failed to remove favorite", zap.Int("id", msg.id), zap.Error(msg.err))
			s.errMsg = "Could not delete favorite."
			return s, nil
		}
		return s, s.load()

	case router.ResumeMsg:
		return s, s.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = min(s.selected+1, max(len(s.entries)-1, 0))
		case "d", "delete", "backspace":
			return s, s.remove()
		}
	}
	return s, nil
}

func (s *FavoritesScreen) remove() tea.Cmd {
	if s.selected < 0 || s.selected >= len(s.entries) {
		return nil
	}
	repo := s.deps.Favorites
	id := s.entries[s.selected].ID
	return func() tea.Msg {
		return removedMsg{id: id, err: repo.Remove(context.Background(), id)}
	}
}

func (s *FavoritesScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered("\n\nError: "+s.errMsg, width, theme.Error)
	}
	if !s.loaded {
		return layout.Centered("\n\n  Loading favorites...", width, theme.TextDim)
	}
	if len(s.entries) == 0 {
		return layout.Centered("\n\n  No favorites yet. Press Ctrl+F on a translation to save it.", width, theme.TextDim)
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
		line := fmt.Sprintf("%s%s → %s   %s", prefix, e.Input, e.Output,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("(%s→%s)", e.SourceLang, e.TargetLang)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
