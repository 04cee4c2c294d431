package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiAliases(t *testing.T) {
	for in, want := range map[string]string{
		"gemini-flash":          "gemini-2.5-flash",
		"gemini-pro":            "gemini-2.5-pro",
		"gemini-2.0-flash-lite": "gemini-2.0-flash-lite",
	} {
		if got := resolveModel(in, geminiAliases); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"detected_language": map[string]any{"type": "string", "enum": []string{"en", "hi"}},
			"segments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"original":   map[string]any{"type": "string"},
						"translated": map[string]any{"type": "string"},
					},
					"required": []any{"original", "translated"},
				},
			},
			"confidence": map[string]any{"type": "number", "description": "0..1"},
		},
		"required": []string{"segments"},
	}

	s := geminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("got %d properties, want 3", len(s.Properties))
	}
	if got := s.Properties["detected_language"].Enum; len(got) != 2 {
		t.Errorf("enum = %v", got)
	}
	seg := s.Properties["segments"]
	if seg.Type != genai.TypeArray || seg.Items == nil || seg.Items.Type != genai.TypeObject {
		t.Fatalf("segments = %+v", seg)
	}
	if len(seg.Items.Required) != 2 {
		t.Errorf("item required = %v", seg.Items.Required)
	}
	if c := s.Properties["confidence"]; c.Type != genai.TypeNumber || c.Description != "0..1" {
		t.Errorf("confidence = %+v", c)
	}
	if len(s.Required) != 1 || s.Required[0] != "segments" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGeminiSchemaUnknownTypeFallsBackToString(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != genai.TypeString {
		t.Errorf("type = %s, want STRING", s.Type)
	}
}
