package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/screens/favorites"
	"github.com/abhisek/trans/internal/screens/history"
	"github.com/abhisek/trans/internal/screens/recent"
	"github.com/abhisek/trans/internal/screens/translate"
	"github.com/abhisek/trans/internal/store"
	trans "github.com/abhisek/trans/internal/translate"
	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/layout"
)

type stats struct {
	favorites int
	quizzes   int
}

type statsLoadedMsg struct {
	stats stats
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps  screen.Deps
	menu  components.Menu
	stats stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates the home screen. Entries whose backing service is missing
// are disabled.
func New(deps screen.Deps) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	items := []components.MenuItem{
		{
			Label:    "TRANSLATE",
			Action:   push(func() screen.Screen { return translate.New(deps) }),
			Disabled: deps.Translator == nil,
		},
		{
			Label:    "FAVORITES",
			Action:   push(func() screen.Screen { return favorites.New(deps) }),
			Disabled: deps.Favorites == nil,
		},
		{
			Label:    "RECENT",
			Action:   push(func() screen.Screen { return recent.New(deps) }),
			Disabled: deps.Recent == nil,
		},
		{
			Label:    "QUIZ HISTORY",
			Action:   push(func() screen.Screen { return history.New(deps.Events) }),
			Disabled: deps.Events == nil,
		},
		{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// loadStats counts favorites and finished quizzes. Failures leave zeros.
func (h *HomeScreen) loadStats() tea.Cmd {
	favs, events := h.deps.Favorites, h.deps.Events
	return func() tea.Msg {
		ctx := context.Background()
		var st stats
		if favs != nil {
			if list, err := favs.List(ctx); err == nil {
				st.favorites = len(list)
			}
		}
		if events != nil {
			if list, err := events.QueryQuizSessions(ctx, store.QueryOpts{}); err == nil {
				st.quizzes = len(list)
			}
		}
		return statsLoadedMsg{stats: st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.stats = msg.stats
		return h, nil
	case router.ResumeMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{
		renderBanner(cw, compact),
		renderStats(h.stats, h.pair(), cw, compact),
		renderMenu(h.menu, cw, compact),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Status shows the default language pair.
func (h *HomeScreen) Status() string {
	return h.pair() + "  "
}

func (h *HomeScreen) pair() string {
	src := h.deps.Translate.Source
	if src == "" {
		src = trans.Auto
	}
	return src + " → " + h.deps.Translate.Target
}
