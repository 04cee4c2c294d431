package screen

import (
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
	"github.com/abhisek/trans/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider supplies the right-hand header text.
type StatusProvider interface {
	Status() string
}

// EscapeHandler is implemented by screens that consume Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// Closer is implemented by screens holding resources. The router calls
// Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// Deps bundles the services screens are built from. Repositories may be
// nil when the store is unavailable; screens degrade to read-only views.
type Deps struct {
	Translator  translate.Translator
	Favorites   store.FavoriteRepo
	Recent      store.RecentRepo
	Events      store.EventRepo
	Preferences store.PreferencesRepo
	Translate   config.Translate
	Quiz        config.Quiz
	Logger      *zap.Logger
}

// Log returns the configured logger or a no-op logger.
func (d Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
