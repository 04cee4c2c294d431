package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/screens/home"
	quizscreen "github.com/abhisek/trans/internal/screens/quiz"
	"github.com/abhisek/trans/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	screen.Deps

	// Quiz, when set, opens straight into a quiz instead of the home menu.
	Quiz *QuizStart
}

// QuizStart describes a quiz launched from the command line.
type QuizStart struct {
	Segments   []quiz.Segment
	Mode       quiz.Mode
	Direction  quiz.Direction
	SourceLang string
	TargetLang string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	root := screen.Screen(home.New(opts.Deps))
	if q := opts.Quiz; q != nil {
		root = quizscreen.New(opts.Deps, quizscreen.Params{
			Segments:   q.Segments,
			Mode:       q.Mode,
			Direction:  q.Direction,
			SourceLang: q.SourceLang,
			TargetLang: q.TargetLang,
			Standalone: true,
		})
	}
	return AppModel{
		router: router.New(root),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.CloseAll()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := newAppModel(opts)
	final, err := tea.NewProgram(m).Run()
	if fm, ok := final.(AppModel); ok {
		fm.router.CloseAll()
	}
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
