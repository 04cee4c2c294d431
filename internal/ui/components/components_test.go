package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type activated struct{ label string }

func testMenu(disabled ...int) Menu {
	labels := []string{"ONE", "TWO", "THREE"}
	items := make([]MenuItem, len(labels))
	for i, l := range labels {
		l := l
		items[i] = MenuItem{
			Label:  l,
			Action: func() tea.Cmd { return func() tea.Msg { return activated{l} } },
		}
	}
	for _, i := range disabled {
		items[i].Disabled = true
	}
	return NewMenu(items)
}

func press(m Menu, k tea.KeyPressMsg) (Menu, tea.Msg) {
	m, cmd := m.Update(k)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := testMenu(0, 1)
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want first enabled item 2", m.Selected)
	}

	m, _ = press(m, tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2 (nothing enabled above)", m.Selected)
	}

	m, msg := press(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	if msg != nil {
		t.Errorf("disabled item activated: %v", msg)
	}
}

func TestMenuNavigateAndActivate(t *testing.T) {
	m := testMenu(1)

	m, _ = press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	_, msg := press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got, ok := msg.(activated); !ok || got.label != "THREE" {
		t.Errorf("activated %v, want THREE", msg)
	}

	m, msg = press(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	if got, ok := msg.(activated); !ok || got.label != "ONE" || m.Selected != 0 {
		t.Errorf("number shortcut activated %v (selected %d)", msg, m.Selected)
	}

	if got := strings.Join(m.Labels(), ","); got != "ONE,TWO,THREE" {
		t.Errorf("Labels = %s", got)
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, 20},
		{60, 54},
		{200, 64},
	}
	for _, tt := range tests {
		if got := ContentWidth(tt.in); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCountdown(t *testing.T) {
	c := Countdown(15, 15, 40)
	if c.Warn || c.Percent != 1 || c.Suffix != "15s" {
		t.Errorf("full countdown = %+v", c)
	}
	c = Countdown(5, 15, 40)
	if !c.Warn {
		t.Error("expected warning in the last third")
	}
	if !strings.Contains(c.View(), " 5s") {
		t.Errorf("view = %q", c.View())
	}
}

func TestChoicesView(t *testing.T) {
	c := Choices{Options: []string{"hola", "adiós"}, Cursor: 1}
	view := c.View()
	if !strings.Contains(view, "1) hola") || !strings.Contains(view, "2) adiós") {
		t.Errorf("view = %q", view)
	}

	c.Answered, c.Expected, c.Picked = true, "hola", "adiós"
	view = c.View()
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("answered view = %q", view)
	}
}
