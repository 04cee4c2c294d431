package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/llm"
	"github.com/abhisek/trans/internal/quiz"
)

// Translator turns text in one language into another.
type Translator interface {
	Translate(ctx context.Context, req Request) (*Translation, error)

	// Name identifies the backend, e.g. "google" or "llm".
	Name() string
}

// Request is one translation request.
type Request struct {
	Text   string `json:"text"`
	Source string `json:"source"` // language code or "auto"
	Target string `json:"target"`
	Style  string `json:"style,omitempty"`
}

// Translation is the result shown to the user and fed to the quiz.
type Translation struct {
	Input           string         `json:"input"`
	Output          string         `json:"output"`
	Source          string         `json:"source"`
	Target          string         `json:"target"`
	Detected        string         `json:"detected,omitempty"`
	Transliteration string         `json:"transliteration,omitempty"`
	Segments        []quiz.Segment `json:"segments"`
	Backend         string         `json:"backend"`
}

// SourceLanguage is the language the input was in: the detected one when
// the request asked for detection.
func (t *Translation) SourceLanguage() string {
	if t.Source == Auto && t.Detected != "" {
		return t.Detected
	}
	return t.Source
}

var (
	ErrEmptyText       = errors.New("nothing to translate")
	ErrSameLanguage    = errors.New("source and target language are the same")
	ErrUnknownLanguage = errors.New("unknown language")
	ErrMalformed       = errors.New("malformed translation response")
)

// ErrUpstream reports a translation service that answered with an error status.
type ErrUpstream struct {
	Status int
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("translation service returned %d %s", e.Status, http.StatusText(e.Status))
}

// Check validates a request before any network call is made.
func (r Request) Check() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if !ValidLanguage(r.Source) {
		return fmt.Errorf("%w: source %q", ErrUnknownLanguage, r.Source)
	}
	if r.Target == Auto || !ValidLanguage(r.Target) {
		return fmt.Errorf("%w: target %q", ErrUnknownLanguage, r.Target)
	}
	if r.Source == r.Target {
		return ErrSameLanguage
	}
	return nil
}

// Swap exchanges source and target. Detection has no reverse, so a request
// with an auto source is returned unchanged with ok false.
func (r Request) Swap() (Request, bool) {
	if r.Source == Auto {
		return r, false
	}
	r.Source, r.Target = r.Target, r.Source
	return r, true
}

// NewTranslator builds the backend selected by translate.backend. provider
// is only needed for the llm backend.
func NewTranslator(cfg config.Translate, provider llm.Provider, client *http.Client) (Translator, error) {
	switch cfg.Backend {
	case "", BackendGoogle:
		return NewGoogleTranslator(cfg.Endpoint, cfg.Timeout, client), nil
	case BackendLLM:
		if provider == nil {
			return nil, errors.New("translate.backend is llm but no LLM provider is configured")
		}
		return NewLLMTranslator(provider), nil
	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Backend)
	}
}

// Backend names.
const (
	BackendGoogle = "google"
	BackendLLM    = "llm"
)
