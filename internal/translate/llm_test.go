package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/llm"
	"github.com/abhisek/trans/internal/quiz"
)

const llmBody = `{
  "output": "Buenos días, amigo",
  "detected_language": "en",
  "transliteration": "",
  "segments": [
    {"original": "Good morning", "translated": "Buenos días", "transliteration": ""},
    {"original": "friend", "translated": "amigo", "transliteration": ""}
  ]
}`

func TestLLMTranslate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(llmBody))
	tr := NewLLMTranslator(mock)

	got, err := tr.Translate(context.Background(), Request{Text: "Good morning, friend", Source: Auto, Target: "es", Style: "formal"})
	require.NoError(t, err)

	assert.Equal(t, "Buenos días, amigo", got.Output)
	assert.Equal(t, "en", got.Detected)
	assert.Equal(t, BackendLLM, got.Backend)
	assert.Equal(t, []quiz.Segment{
		{Original: "Good morning", Translated: "Buenos días"},
		{Original: "friend", Translated: "amigo"},
	}, got.Segments)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, TranslationSchema, req.Schema)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Target language: Spanish (es)")
	assert.Contains(t, prompt, "formal and polite register")
	assert.True(t, strings.HasSuffix(prompt, "Good morning, friend"))
}

func TestLLMTranslate_DetectedOnlyForAuto(t *testing.T) {
	tr := NewLLMTranslator(llm.NewMockProvider(llm.MockJSON(llmBody)))
	got, err := tr.Translate(context.Background(), Request{Text: "Good morning, friend", Source: "en", Target: "es"})
	require.NoError(t, err)
	assert.Empty(t, got.Detected)
}

func TestLLMTranslate_Validators(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		validator string
	}{
		{"empty output", `{"output":" ","detected_language":"","transliteration":"","segments":[{"original":"a","translated":"b","transliteration":""}]}`, "output"},
		{"no eligible segment", `{"output":"hola","detected_language":"","transliteration":"","segments":[{"original":"hi","translated":"","transliteration":""}]}`, "segments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewLLMTranslator(llm.NewMockProvider(llm.MockJSON(tt.body)))
			_, err := tr.Translate(context.Background(), Request{Text: "hi", Source: "en", Target: "es"})
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "err = %v", err)
			assert.Equal(t, tt.validator, verr.Validator)
		})
	}
}

func TestLLMTranslate_SchemaViolation(t *testing.T) {
	tr := NewLLMTranslator(llm.NewMockProvider(llm.MockJSON(`{"output":"hola"}`)))
	_, err := tr.Translate(context.Background(), Request{Text: "hi", Source: "en", Target: "es"})
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "err = %v", err)
}

func TestLLMTranslate_UnknownStyle(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewLLMTranslator(mock).Translate(context.Background(), Request{Text: "hi", Source: "en", Target: "es", Style: "pirate"})
	assert.Error(t, err)
	assert.Zero(t, mock.CallCount())
}

type stubTranslator struct {
	t   *Translation
	err error
}

func (s stubTranslator) Name() string { return "stub" }
func (s stubTranslator) Translate(context.Context, Request) (*Translation, error) {
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.t
	return &cp, nil
}

func TestSegmenter_AlignsSingleBlock(t *testing.T) {
	base := stubTranslator{t: &Translation{
		Input:    "the cat sleeps on the sofa",
		Output:   "el gato duerme en el sofá",
		Source:   "en",
		Target:   "es",
		Segments: []quiz.Segment{{Original: "the cat sleeps on the sofa", Translated: "el gato duerme en el sofá"}},
		Backend:  BackendGoogle,
	}}
	mock := llm.NewMockProvider(llm.MockJSON(`{"segments":[
		{"original":"the cat sleeps","translated":"el gato duerme","transliteration":""},
		{"original":"on the sofa","translated":"en el sofá","transliteration":""}]}`))

	got, err := WithSegmenter(base, mock, nil).Translate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "en el sofá", got.Segments[1].Translated)
	assert.Equal(t, SegmentSchema, mock.Calls[0].Schema)
}

func TestSegmenter_SkipsShortOrSegmented(t *testing.T) {
	mock := llm.NewMockProvider()
	base := stubTranslator{t: &Translation{
		Input:    "hello",
		Output:   "hola",
		Segments: []quiz.Segment{{Original: "hello", Translated: "hola"}},
	}}
	_, err := WithSegmenter(base, mock, nil).Translate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Zero(t, mock.CallCount())
}

func TestSegmenter_FailureKeepsTranslation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	base := stubTranslator{t: &Translation{
		Input:    "one two three four five",
		Output:   "uno dos tres cuatro cinco",
		Segments: []quiz.Segment{{Original: "one two three four five", Translated: "uno dos tres cuatro cinco"}},
	}}
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	got, err := WithSegmenter(base, mock, zap.New(core)).Translate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Len(t, got.Segments, 1)
	assert.Equal(t, 1, logs.FilterMessage("segment alignment failed").Len())
}

func TestNewTranslator(t *testing.T) {
	g, err := NewTranslator(config.Translate{Backend: "google"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendGoogle, g.Name())

	_, err = NewTranslator(config.Translate{Backend: "llm"}, nil, nil)
	assert.Error(t, err)

	l, err := NewTranslator(config.Translate{Backend: "llm"}, llm.NewMockProvider(), nil)
	require.NoError(t, err)
	assert.Equal(t, BackendLLM, l.Name())

	_, err = NewTranslator(config.Translate{Backend: "deepl"}, nil, nil)
	assert.Error(t, err)
}
