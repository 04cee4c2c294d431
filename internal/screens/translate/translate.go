package translate

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	qz "github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	quizscreen "github.com/abhisek/trans/internal/screens/quiz"
	"github.com/abhisek/trans/internal/store"
	trans "github.com/abhisek/trans/internal/translate"
	"github.com/abhisek/trans/internal/ui/components"
	"github.com/abhisek/trans/internal/ui/layout"
)

// preferencesKept is how many preference snapshots survive a save.
const preferencesKept = 20

// TranslateScreen is the main translation view: an input line, language
// and style selectors, and the latest result.
type TranslateScreen struct {
	deps   screen.Deps
	logger *zap.Logger

	input  components.TextInput
	source string
	target string
	style  string

	// autoRun translates the prefilled input on Init.
	autoRun bool

	seq      int
	loading  bool
	result   *trans.Translation
	errMsg   string
	notice   string
	quizMode qz.Mode
}

var _ screen.Screen = (*TranslateScreen)(nil)
var _ screen.KeyHintProvider = (*TranslateScreen)(nil)
var _ screen.StatusProvider = (*TranslateScreen)(nil)

// New creates an empty translate screen using the configured defaults.
// Saved preferences override them once loaded.
func New(deps screen.Deps) *TranslateScreen {
	s := &TranslateScreen{
		deps:   deps,
		logger: deps.Log(),
		input:  components.NewTextInput("Type something to translate...", 500),
		source: deps.Translate.Source,
		target: deps.Translate.Target,
		style:  deps.Translate.Style,
	}
	if !trans.ValidLanguage(s.source) {
		s.source = trans.Auto
	}
	if !trans.ValidLanguage(s.target) || s.target == trans.Auto {
		s.target = "hi"
	}
	if !trans.ValidStyle(s.style) || s.style == "" {
		s.style = trans.Styles[0]
	}
	return s
}

// NewFromEntry creates a translate screen prefilled with a saved
// translation and translates it again right away.
func NewFromEntry(deps screen.Deps, e store.Entry) *TranslateScreen {
	s := New(deps)
	s.input.SetValue(e.Input)
	if trans.ValidLanguage(e.SourceLang) {
		s.source = e.SourceLang
	}
	if trans.ValidLanguage(e.TargetLang) && e.TargetLang != trans.Auto {
		s.target = e.TargetLang
	}
	s.autoRun = true
	return s
}

func (s *TranslateScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.input.Init()}
	if s.autoRun {
		cmds = append(cmds, s.translate())
	} else if s.deps.Preferences != nil {
		cmds = append(cmds, s.loadPreferences())
	}
	return tea.Batch(cmds...)
}

func (s *TranslateScreen) Title() string {
	return "Translate"
}

// Status shows the selected language pair.
func (s *TranslateScreen) Status() string {
	return fmt.Sprintf("%s → %s  ", s.source, s.target)
}

func (s *TranslateScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Translate"},
		{Key: "Tab", Description: "To"},
		{Key: "⇧Tab", Description: "From"},
		{Key: "Ctrl+S", Description: "Swap"},
		{Key: "Ctrl+E", Description: "Style"},
	}
	if s.result != nil {
		hints = append(hints,
			layout.KeyHint{Key: "Ctrl+F", Description: "Favorite"},
			layout.KeyHint{Key: "Ctrl+Q", Description: "Quiz"},
			layout.KeyHint{Key: "Ctrl+T", Description: "Timed"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *TranslateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case prefsLoadedMsg:
		s.applyPreferences(msg.prefs)
		return s, nil

	case translatedMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.errMsg = describeError(msg.err)
			return s, nil
		}
		s.result = msg.result
		s.errMsg = ""
		return s, nil

	case favoriteSavedMsg:
		switch {
		case msg.err != nil:
			s.notice = "Could not save favorite."
		case msg.added:
			s.notice = "★ Saved to favorites"
		default:
			s.notice = "Already in favorites"
		}
		return s, nil

	case tea.KeyMsg:
		if cmd, handled := s.handleKey(msg); handled {
			return s, cmd
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TranslateScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		return s.translate(), true
	case "tab":
		s.target = trans.NextLanguage(s.target, false)
		return nil, true
	case "shift+tab":
		s.source = trans.NextLanguage(s.source, true)
		return nil, true
	case "ctrl+e":
		s.style = trans.NextStyle(s.style)
		return nil, true
	case "ctrl+s":
		s.swap()
		return nil, true
	case "ctrl+l":
		s.input.Reset()
		s.result = nil
		s.errMsg = ""
		s.notice = ""
		return nil, true
	case "ctrl+f":
		return s.addFavorite(), true
	case "ctrl+q":
		return s.startQuiz(qz.ModeMultipleChoice), true
	case "ctrl+t":
		return s.startQuiz(qz.ModeTimedFreeText), true
	}
	return nil, false
}

// swap exchanges the languages and, when a result is showing, moves the
// output into the input so it can be translated back.
func (s *TranslateScreen) swap() {
	req, ok := trans.Request{Source: s.source, Target: s.target}.Swap()
	if !ok {
		s.notice = "Pick a source language to swap."
		return
	}
	s.source, s.target = req.Source, req.Target
	if s.result != nil {
		s.input.SetValue(s.result.Output)
		s.result = nil
	}
	s.notice = ""
}

func (s *TranslateScreen) request() trans.Request {
	return trans.Request{
		Text:   s.input.TrimmedValue(),
		Source: s.source,
		Target: s.target,
		Style:  s.style,
	}
}

// translate starts a translation of the current input. Bad input is
// reported without calling the backend.
func (s *TranslateScreen) translate() tea.Cmd {
	if s.deps.Translator == nil {
		s.errMsg = "No translation backend is configured."
		return nil
	}
	req := s.request()
	if err := req.Check(); err != nil {
		s.errMsg = describeError(err)
		return nil
	}

	s.seq++
	s.loading = true
	s.errMsg = ""
	s.notice = ""

	seq := s.seq
	deps := s.deps
	logger := s.logger
	prefs := s.preferences()
	return func() tea.Msg {
		ctx := context.Background()
		t, err := deps.Translator.Translate(ctx, req)
		if err != nil {
			logger.Warn("translation failed", zap.String("backend", deps.Translator.Name()), zap.Error(err))
			return translatedMsg{seq: seq, err: err}
		}

		if deps.Recent != nil {
			_, err := deps.Recent.Record(ctx, store.Entry{
				Input:      t.Input,
				Output:     t.Output,
				SourceLang: t.SourceLanguage(),
				TargetLang: t.Target,
			})
			if err != nil {
				logger.Warn("failed to record recent translation", zap.Error(err))
			}
		}
		savePreferences(ctx, deps.Preferences, prefs, logger)

		return translatedMsg{seq: seq, result: t}
	}
}

func (s *TranslateScreen) addFavorite() tea.Cmd {
	if s.result == nil || s.deps.Favorites == nil {
		return nil
	}
	favs := s.deps.Favorites
	e := store.Entry{
		Input:      s.result.Input,
		Output:     s.result.Output,
		SourceLang: s.result.SourceLanguage(),
		TargetLang: s.result.Target,
	}
	return func() tea.Msg {
		_, added, err := favs.Add(context.Background(), e)
		return favoriteSavedMsg{added: added, err: err}
	}
}

func (s *TranslateScreen) startQuiz(mode qz.Mode) tea.Cmd {
	if s.result == nil {
		return nil
	}
	if len(qz.FilterEligible(s.result.Segments)) == 0 {
		s.notice = "Nothing to quiz on in this translation."
		return nil
	}

	s.quizMode = mode
	repo, prefs, logger := s.deps.Preferences, s.preferences(), s.logger
	save := func() tea.Msg {
		savePreferences(context.Background(), repo, prefs, logger)
		return nil
	}

	q := quizscreen.New(s.deps, quizscreen.Params{
		Segments:   s.result.Segments,
		Mode:       mode,
		SourceLang: s.result.SourceLanguage(),
		TargetLang: s.result.Target,
	})
	return tea.Batch(save, func() tea.Msg { return router.PushScreenMsg{Screen: q} })
}

func (s *TranslateScreen) loadPreferences() tea.Cmd {
	repo, logger := s.deps.Preferences, s.logger
	return func() tea.Msg {
		snap, err := repo.Latest(context.Background())
		if err != nil {
			logger.Warn("failed to load preferences", zap.Error(err))
			return prefsLoadedMsg{}
		}
		if snap == nil {
			return prefsLoadedMsg{}
		}
		return prefsLoadedMsg{prefs: &snap.Data}
	}
}

func (s *TranslateScreen) applyPreferences(p *store.Preferences) {
	if p == nil {
		return
	}
	if trans.ValidLanguage(p.SourceLang) {
		s.source = p.SourceLang
	}
	if trans.ValidLanguage(p.TargetLang) && p.TargetLang != trans.Auto {
		s.target = p.TargetLang
	}
	if p.Style != "" && trans.ValidStyle(p.Style) {
		s.style = p.Style
	}
	if m, err := qz.ParseMode(p.QuizMode); err == nil {
		s.quizMode = m
	}
}

func (s *TranslateScreen) preferences() store.Preferences {
	return store.Preferences{
		Version:    1,
		SourceLang: s.source,
		TargetLang: s.target,
		Style:      s.style,
		QuizMode:   s.quizMode.String(),
	}
}

func savePreferences(ctx context.Context, repo store.PreferencesRepo, p store.Preferences, logger *zap.Logger) {
	if repo == nil {
		return
	}
	if err := repo.Save(ctx, p); err != nil {
		logger.Warn("failed to save preferences", zap.Error(err))
		return
	}
	if err := repo.Prune(ctx, preferencesKept); err != nil {
		logger.Warn("failed to prune preferences", zap.Error(err))
	}
}

// describeError turns a translation failure into a one-line message.
func describeError(err error) string {
	var upstream *trans.ErrUpstream
	switch {
	case errors.Is(err, trans.ErrEmptyText):
		return "Type something to translate."
	case errors.Is(err, trans.ErrSameLanguage):
		return "Source and target language are the same."
	case errors.Is(err, trans.ErrUnknownLanguage):
		return "That language is not supported."
	case errors.As(err, &upstream):
		return fmt.Sprintf("The translation service failed (%d). Try again later.", upstream.Status)
	case errors.Is(err, trans.ErrMalformed):
		return "The translation service sent an unreadable reply."
	default:
		return "Translation failed: " + err.Error()
	}
}
