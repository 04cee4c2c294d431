package recent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trans/internal/router"
	"github.com/abhisek/trans/internal/screen"
	screentranslate "github.com/abhisek/trans/internal/screens/translate"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
)

type stubTranslator struct{}

func (stubTranslator) Translate(_ context.Context, req translate.Request) (*translate.Translation, error) {
	return &translate.Translation{Input: req.Text, Output: req.Text, Source: req.Source, Target: req.Target}, nil
}

func (stubTranslator) Name() string { return "stub" }

func openStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := store.Open(context.Background(), store.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRecentScreen_List(t *testing.T) {
	st := openStore(t)
	if _, err := st.RecentRepo().Record(context.Background(), store.Entry{Input: "thank you", Output: "dhanyavaad", SourceLang: "en", TargetLang: "hi"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	s := New(screen.Deps{Recent: st.RecentRepo()})
	s.Update(s.Init()())

	if view := s.View(100, 24); !strings.Contains(view, "thank you → dhanyavaad") {
		t.Error("expected the recent entry in the view")
	}
}

func TestRecentScreen_Empty(t *testing.T) {
	s := New(screen.Deps{})
	s.Update(loadedMsg{})
	if view := s.View(80, 24); !strings.Contains(view, "Nothing translated yet") {
		t.Error("expected the empty-state text")
	}
}

func TestRecentScreen_TranslateAgain(t *testing.T) {
	entry := store.Entry{Input: "water", Output: "paani", SourceLang: "en", TargetLang: "hi"}

	s := New(screen.Deps{})
	s.Update(loadedMsg{entries: []store.Entry{entry}})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command without a translator")
	}

	s = New(screen.Deps{Translator: stubTranslator{}})
	s.Update(loadedMsg{entries: []store.Entry{entry}})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*screentranslate.TranslateScreen); !ok {
		t.Errorf("pushed %T, want translate screen", push.Screen)
	}
}
