package translate

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/llm"
	"github.com/abhisek/trans/internal/quiz"
)

// segmentingTranslator asks an LLM to split a translation into phrases
// when the wrapped backend returned it as a single block. Alignment
// failures are logged and the original translation is kept.
type segmentingTranslator struct {
	inner    Translator
	provider llm.Provider
	logger   *zap.Logger
}

// WithSegmenter wraps t so that single-block translations of longer input
// get phrase segments for the quiz.
func WithSegmenter(t Translator, provider llm.Provider, logger *zap.Logger) Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &segmentingTranslator{inner: t, provider: provider, logger: logger}
}

func (s *segmentingTranslator) Name() string { return s.inner.Name() }

func (s *segmentingTranslator) Translate(ctx context.Context, req Request) (*Translation, error) {
	t, err := s.inner.Translate(ctx, req)
	if err != nil || !needsAlignment(t) {
		return t, err
	}

	segs, err := s.align(ctx, t)
	if err != nil {
		s.logger.Warn("segment alignment failed", zap.String("backend", t.Backend), zap.Error(err))
		return t, nil
	}
	t.Segments = segs
	return t, nil
}

func (s *segmentingTranslator) align(ctx context.Context, t *Translation) ([]quiz.Segment, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSegment)

	resp, err := s.provider.Generate(ctx, llm.UserRequest(segmentSystemPrompt, buildSegmentPrompt(t), SegmentSchema))
	if err != nil {
		return nil, err
	}

	var raw struct {
		Segments []segmentOutput `json:"segments"`
	}
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, err
	}

	segs := toSegments(raw.Segments)
	if len(quiz.FilterEligible(segs)) == 0 {
		return nil, &ValidationError{Validator: "segments", Message: "alignment produced no usable segment"}
	}
	return segs, nil
}
