package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/trans/internal/llm"
	"github.com/abhisek/trans/internal/quiz"
)

// LLMConfig controls the behaviour of the LLMTranslator.
type LLMConfig struct {
	// Validators run in order on every translation; the first failure
	// stops the pipeline.
	Validators []Validator

	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns the standard validator chain.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Validators: []Validator{
			&OutputValidator{},
			&SegmentValidator{},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

// LLMTranslator implements Translator on top of an llm.Provider. It is the
// only backend that honours the requested style.
type LLMTranslator struct {
	provider llm.Provider
	config   LLMConfig
}

// NewLLMTranslator creates a translator with DefaultLLMConfig.
func NewLLMTranslator(provider llm.Provider) *LLMTranslator {
	return NewLLMTranslatorWithConfig(provider, DefaultLLMConfig())
}

func NewLLMTranslatorWithConfig(provider llm.Provider, cfg LLMConfig) *LLMTranslator {
	return &LLMTranslator{provider: provider, config: cfg}
}

func (t *LLMTranslator) Name() string { return BackendLLM }

// translationOutput is the raw LLM response before validation.
type translationOutput struct {
	Output           string          `json:"output"`
	DetectedLanguage string          `json:"detected_language"`
	Transliteration  string          `json:"transliteration"`
	Segments         []segmentOutput `json:"segments"`
}

type segmentOutput struct {
	Original        string `json:"original"`
	Translated      string `json:"translated"`
	Transliteration string `json:"transliteration"`
}

func (t *LLMTranslator) Translate(ctx context.Context, req Request) (*Translation, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}
	if !ValidStyle(req.Style) {
		return nil, fmt.Errorf("unknown style %q", req.Style)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeTranslate)

	r := llm.UserRequest(translateSystemPrompt, buildTranslatePrompt(req), TranslationSchema)
	r.MaxTokens = t.config.MaxTokens
	r.Temperature = t.config.Temperature

	resp, err := t.provider.Generate(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("LLM translation failed: %w", err)
	}

	var raw translationOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	tr := &Translation{
		Input:           req.Text,
		Output:          strings.TrimSpace(raw.Output),
		Source:          req.Source,
		Target:          req.Target,
		Transliteration: raw.Transliteration,
		Segments:        toSegments(raw.Segments),
		Backend:         BackendLLM,
	}
	if req.Source == Auto {
		tr.Detected = raw.DetectedLanguage
	}

	for _, v := range t.config.Validators {
		if verr := v.Validate(tr, req); verr != nil {
			return nil, verr
		}
	}
	return tr, nil
}

func toSegments(in []segmentOutput) []quiz.Segment {
	out := make([]quiz.Segment, 0, len(in))
	for _, s := range in {
		out = append(out, quiz.Segment{
			Original:        strings.TrimSpace(s.Original),
			Translated:      strings.TrimSpace(s.Translated),
			Transliteration: strings.TrimSpace(s.Transliteration),
		})
	}
	return out
}

// Validator checks an LLM translation before it is returned.
type Validator interface {
	Name() string
	Validate(t *Translation, req Request) *ValidationError
}

// ValidationError describes why a translation failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// OutputValidator rejects empty or echoed output.
type OutputValidator struct{}

func (v *OutputValidator) Name() string { return "output" }

func (v *OutputValidator) Validate(t *Translation, req Request) *ValidationError {
	if t.Output == "" {
		return &ValidationError{Validator: v.Name(), Message: "output is empty"}
	}
	if len(t.Output) > 8*len(req.Text)+200 {
		return &ValidationError{Validator: v.Name(), Message: "output is far longer than the input"}
	}
	return nil
}

// SegmentValidator requires at least one segment the quiz can use.
type SegmentValidator struct{}

func (v *SegmentValidator) Name() string { return "segments" }

func (v *SegmentValidator) Validate(t *Translation, _ Request) *ValidationError {
	if len(quiz.FilterEligible(t.Segments)) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "no segment has both original and translated text"}
	}
	return nil
}
