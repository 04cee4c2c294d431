package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/store"
)

func TestParseSegments(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		set, err := parseSegments([]byte(`  [{"original":"hello","translated":"hola"},{"original":"bye","translated":"adiós"}]`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(set.Segments) != 2 || set.Segments[1].Translated != "adiós" {
			t.Errorf("segments = %+v", set.Segments)
		}
		if set.Source != "" || set.Target != "" {
			t.Errorf("expected no languages from a bare array, got %q/%q", set.Source, set.Target)
		}
	})

	t.Run("translation", func(t *testing.T) {
		set, err := parseSegments([]byte(`{
			"input": "hello", "output": "hola", "source": "auto", "target": "es", "detected": "en",
			"segments": [{"original": "hello", "translated": "hola", "transliteration": "o-la"}]
		}`))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if set.Source != "en" || set.Target != "es" {
			t.Errorf("languages = %q/%q, want en/es", set.Source, set.Target)
		}
		if len(set.Segments) != 1 || set.Segments[0].Transliteration != "o-la" {
			t.Errorf("segments = %+v", set.Segments)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := parseSegments([]byte(`[{"original":`)); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestPickChoice(t *testing.T) {
	choices := []string{"hola", "adiós", "gracias"}
	tests := []struct {
		answer string
		want   string
		ok     bool
	}{
		{"1", "hola", true},
		{"3", "gracias", true},
		{"0", "", false},
		{"4", "", false},
		{"ADIÓS", "adiós", true},
		{"nope", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := pickChoice(tt.answer, choices)
		if got != tt.want || ok != tt.ok {
			t.Errorf("pickChoice(%q) = %q, %v; want %q, %v", tt.answer, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDrill(t *testing.T) {
	cfg := quiz.DefaultConfig()
	cfg.TargetLabel = "Spanish"
	m := quiz.NewMachine(cfg, nil)
	segments := []quiz.Segment{{Original: "thank you", Translated: "gracias", Transliteration: "gra-see-as"}}

	var out bytes.Buffer
	in := strings.NewReader("9\nh\n1\n")
	if err := drill(m, segments, in, &out); err != nil {
		t.Fatalf("drill: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Question 1/1",
		"Translate this segment into Spanish",
		"Pick one of the numbers above.",
		"(gra-see-as)",
		"Correct!",
		"Summary: 1/1 correct",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDrillInputClosed(t *testing.T) {
	m := quiz.NewMachine(quiz.DefaultConfig(), nil)
	segments := []quiz.Segment{{Original: "a", Translated: "b"}, {Original: "c", Translated: "d"}}

	var out bytes.Buffer
	if err := drill(m, segments, strings.NewReader(""), &out); err != nil {
		t.Fatalf("drill: %v", err)
	}
	if !strings.Contains(out.String(), "(input closed)") || !strings.Contains(out.String(), "Summary: 0/2 correct") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDrillNoSegments(t *testing.T) {
	m := quiz.NewMachine(quiz.DefaultConfig(), nil)
	err := drill(m, []quiz.Segment{{Original: "a"}}, strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, quiz.ErrNoEligibleSegments) {
		t.Errorf("err = %v, want ErrNoEligibleSegments", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("नमस्ते दुनिया", 3); got != "नमस" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}

func TestFilterPurpose(t *testing.T) {
	event := func(id int, purpose string) store.LLMEvent {
		return store.LLMEvent{ID: id, LLMRequestEventData: store.LLMRequestEventData{Purpose: purpose}}
	}
	events := []store.LLMEvent{
		event(1, "translate"),
		event(2, "segment"),
		event(3, "translate"),
		event(4, "translate"),
	}

	got := filterPurpose(events, "translate", 2)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("filtered = %+v", got)
	}
	if got := filterPurpose(events, "", 0); len(got) != 4 {
		t.Errorf("unfiltered length = %d, want 4", len(got))
	}
	if len(events) != 4 || events[1].Purpose != "segment" {
		t.Error("input slice was modified")
	}
}

func TestFormatCost(t *testing.T) {
	if got := formatCost(0.0012); got != "$0.0012" {
		t.Errorf("formatCost = %q", got)
	}
	if got := formatCost(1.5); got != "$1.50" {
		t.Errorf("formatCost = %q", got)
	}
}
