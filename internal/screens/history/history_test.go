package history

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trans/internal/store"
)

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

func TestHistoryScreen_Empty(t *testing.T) {
	st := openStore(t)
	s := New(st.EventRepo())
	s.Update(s.Init()())

	if view := s.View(100, 30); !strings.Contains(view, "No quizzes yet") {
		t.Error("expected the empty-state text")
	}
}

func TestHistoryScreen_Sessions(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	err := st.EventRepo().AppendQuizSession(ctx, store.QuizSessionEventData{
		SessionID:    "s1",
		Action:       "end",
		Mode:         "timed",
		Direction:    "forward",
		SourceLang:   "en",
		TargetLang:   "hi",
		RunLength:    4,
		Answered:     4,
		Correct:      3,
		Points:       310,
		BestStreak:   2,
		DurationSecs: 75,
	})
	if err != nil {
		t.Fatalf("append session: %v", err)
	}

	s := New(st.EventRepo())
	s.Update(s.Init()())
	if len(s.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(s.sessions))
	}

	view := s.View(120, 30)
	if !strings.Contains(view, "3/4 correct") || !strings.Contains(view, "75%") {
		t.Errorf("view missing score line:\n%s", view)
	}
	if strings.Contains(view, "Duration") {
		t.Error("details should be collapsed by default")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(120, 30)
	for _, want := range []string{"Duration 1:15, 4 segments", "310 points, best streak 2", "English → Hindi"} {
		if !strings.Contains(view, want) {
			t.Errorf("expanded view missing %q", want)
		}
	}
}

func TestHistoryScreen_LoadError(t *testing.T) {
	s := New(nil)
	s.Update(historyLoadedMsg{Err: fmt.Errorf("boom")})
	if view := s.View(80, 24); !strings.Contains(view, "Error: boom") {
		t.Error("expected the load error in the view")
	}
}
