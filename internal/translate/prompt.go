package translate

import (
	"fmt"
	"strings"

	"github.com/abhisek/trans/internal/llm"
	"github.com/abhisek/trans/internal/quiz"
)

const translateSystemPrompt = `You are a translator helping a language learner.

Rules:
- Translate the text faithfully into the target language in the requested style.
- Split the text into short phrase segments (a clause or a few words each) and give each segment's translation, so a learner can practise them one by one.
- Segments must cover the whole text in order. Their translations joined together should read like the full output.
- When the target language is not written in Latin script, give a Latin-script transliteration of the output and of each segment. Otherwise leave transliteration empty.
- When the source language is "auto", report the detected language as an ISO 639-1 code.
- Do not add notes, quotes or explanations to the output.`

const segmentSystemPrompt = `You align a translation with its source text for a language learner.

Rules:
- Split the source text into short phrase segments (a clause or a few words each), in order, covering all of it.
- For each segment give the matching part of the given translation. Reuse the translation's words; do not retranslate.
- When the translation is not written in Latin script, give a Latin-script transliteration for each segment.`

var styleGuide = map[string]string{
	"default": "natural, everyday register",
	"formal":  "formal and polite register",
	"casual":  "casual, conversational register",
	"poetic":  "lyrical, poetic register while keeping the meaning",
}

func buildTranslatePrompt(req Request) string {
	style := req.Style
	if style == "" {
		style = "default"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Source language: %s (%s)\n", LanguageLabel(req.Source), req.Source)
	fmt.Fprintf(&b, "Target language: %s (%s)\n", LanguageLabel(req.Target), req.Target)
	fmt.Fprintf(&b, "Style: %s\n", styleGuide[style])
	b.WriteString("\nText:\n")
	b.WriteString(req.Text)
	return b.String()
}

func buildSegmentPrompt(t *Translation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source (%s):\n%s\n\n", LanguageLabel(t.SourceLanguage()), t.Input)
	fmt.Fprintf(&b, "Translation (%s):\n%s\n", LanguageLabel(t.Target), t.Output)
	return b.String()
}

var segmentProperties = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"original":        map[string]any{"type": "string", "description": "Phrase from the source text"},
			"translated":      map[string]any{"type": "string", "description": "Its translation"},
			"transliteration": map[string]any{"type": "string", "description": "Latin-script reading of the translation, or empty"},
		},
		"required":             []any{"original", "translated", "transliteration"},
		"additionalProperties": false,
	},
	"description": "Phrase-aligned segments in source order",
}

// TranslationSchema defines the JSON schema for LLM translation responses.
var TranslationSchema = &llm.Schema{
	Name:        "segment-translation",
	Description: "A translation with phrase-aligned segments",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"output": map[string]any{
				"type":        "string",
				"description": "The full translation",
			},
			"detected_language": map[string]any{
				"type":        "string",
				"description": "ISO 639-1 code of the source text when the source is auto, otherwise empty",
			},
			"transliteration": map[string]any{
				"type":        "string",
				"description": "Latin-script reading of the full translation, or empty",
			},
			"segments": segmentProperties,
		},
		"required":             []any{"output", "detected_language", "transliteration", "segments"},
		"additionalProperties": false,
	},
}

// SegmentSchema defines the JSON schema for segment alignment responses.
var SegmentSchema = &llm.Schema{
	Name:        "segment-alignment",
	Description: "Phrase alignment between a text and its translation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"segments": segmentProperties,
		},
		"required":             []any{"segments"},
		"additionalProperties": false,
	},
}

// needsAlignment reports whether a translation came back as one block
// although the input has several words.
func needsAlignment(t *Translation) bool {
	return len(quiz.FilterEligible(t.Segments)) < 2 && len(strings.Fields(t.Input)) > 3
}
