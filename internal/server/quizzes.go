package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/quizlog"
	"github.com/abhisek/trans/internal/translate"
)

// liveQuiz is one quiz session held by the API.
type liveQuiz struct {
	session  *quiz.Session
	journal  *quizlog.Journal
	lastSeen time.Time
}

func (q *liveQuiz) close() {
	q.journal.Finish(q.session.Snapshot())
	q.session.Close()
}

// registry holds live quizzes by id. Quizzes untouched for longer than
// idle are closed by sweep, which runs on every create and periodically
// while the server is up.
type registry struct {
	mu      sync.Mutex
	quizzes map[string]*liveQuiz
	idle    time.Duration
	now     func() time.Time
}

func newRegistry(idle time.Duration) *registry {
	return &registry{quizzes: make(map[string]*liveQuiz), idle: idle, now: time.Now}
}

func (r *registry) add(id string, q *liveQuiz) {
	r.sweep()

	r.mu.Lock()
	q.lastSeen = r.now()
	r.quizzes[id] = q
	r.mu.Unlock()
}

// sweep closes idle quizzes and returns how many it closed. Quizzes are
// closed outside the registry lock.
func (r *registry) sweep() int {
	r.mu.Lock()
	now := r.now()
	var stale []*liveQuiz
	for id, q := range r.quizzes {
		if now.Sub(q.lastSeen) > r.idle {
			delete(r.quizzes, id)
			stale = append(stale, q)
		}
	}
	r.mu.Unlock()

	for _, q := range stale {
		q.close()
	}
	return len(stale)
}

// run sweeps every interval until ctx is cancelled.
func (r *registry) run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.sweep()
		}
	}
}

func (r *registry) get(id string) (*liveQuiz, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quizzes[id]
	if ok {
		q.lastSeen = r.now()
	}
	return q, ok
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	q, ok := r.quizzes[id]
	delete(r.quizzes, id)
	r.mu.Unlock()
	if ok {
		q.close()
	}
	return ok
}

func (r *registry) closeAll() {
	r.mu.Lock()
	all := r.quizzes
	r.quizzes = make(map[string]*liveQuiz)
	r.mu.Unlock()
	for _, q := range all {
		q.close()
	}
}

type createQuizRequest struct {
	Segments   []quiz.Segment `json:"segments"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Mode       string         `json:"mode"`
	Direction  string         `json:"direction"`
	TimeLimit  int            `json:"time_limit"`
	Choices    int            `json:"choices"`
	SourceName string         `json:"source_label"`
	TargetName string         `json:"target_label"`
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	mode, err := quiz.ParseMode(req.Mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	dir, err := quiz.ParseDirection(req.Direction)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(quiz.FilterEligible(req.Segments)) == 0 {
		jsonError(w, "no segment has both original and translated text", http.StatusBadRequest)
		return
	}

	cfg := quiz.Config{
		Mode:        mode,
		Direction:   dir,
		Choices:     s.quiz.Choices,
		TimeLimit:   s.quiz.TimeLimit,
		TargetLabel: labelFor(req.TargetName, req.Target),
		SourceLabel: labelFor(req.SourceName, req.Source),
	}
	if req.Choices >= 2 {
		cfg.Choices = req.Choices
	}
	if req.TimeLimit > 0 {
		cfg.TimeLimit = req.TimeLimit
	}

	sess := quiz.NewSession(quiz.NewMachine(cfg, nil), quiz.WithLogger(s.logger))
	id := uuid.NewString()
	live := &liveQuiz{
		session: sess,
		journal: quizlog.Attach(sess, s.events, id, req.Source, req.Target, s.logger),
	}
	s.quizzes.add(id, live)

	st, _ := sess.Dispatch(quiz.Initialize{Segments: req.Segments})
	s.logger.Debug("quiz created", zap.String("id", id), zap.String("mode", mode.String()), zap.Int("segments", st.Len()))

	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "state": newStateView(st)})
}

func labelFor(label, code string) string {
	if label != "" {
		return label
	}
	if code == "" || code == translate.Auto {
		return ""
	}
	return translate.LanguageLabel(code)
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizzes.get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, "quiz not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, newStateView(q.session.Snapshot()))
}

type quizEventRequest struct {
	Type      string `json:"type"`
	Choice    string `json:"choice,omitempty"`
	Text      string `json:"text,omitempty"`
	Direction string `json:"direction,omitempty"`
}

func (s *Server) quizEvent(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizzes.get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, "quiz not found", http.StatusNotFound)
		return
	}

	var req quizEventRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ev, err := toEvent(req, q.session.Snapshot())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := q.session.Dispatch(ev)
	if errors.Is(err, quiz.ErrSessionClosed) {
		jsonError(w, "quiz is closed", http.StatusNotFound)
		return
	}
	view := newStateView(st)
	if err != nil {
		view.Ignored = err.Error()
	}
	respondJSON(w, http.StatusOK, view)
}

// toEvent maps an API event to a quiz event. expire is stamped with the
// current generation so a client cannot time out a later question.
func toEvent(req quizEventRequest, st quiz.State) (quiz.Event, error) {
	switch req.Type {
	case "answer":
		return quiz.SubmitAnswer{Choice: req.Choice}, nil
	case "advance":
		return quiz.Advance{}, nil
	case "retry":
		return quiz.Retry{}, nil
	case "hint":
		return quiz.ToggleHint{}, nil
	case "free_text":
		return quiz.SubmitFreeText{Text: req.Text}, nil
	case "input":
		return quiz.SetInput{Text: req.Text}, nil
	case "previous":
		return quiz.Previous{}, nil
	case "direction":
		d, err := quiz.ParseDirection(req.Direction)
		if err != nil {
			return nil, err
		}
		return quiz.SetDirection{Direction: d}, nil
	case "expire":
		return quiz.TimerExpire{Generation: st.Generation}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", req.Type)
}

func (s *Server) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if !s.quizzes.remove(chi.URLParam(r, "id")) {
		jsonError(w, "quiz not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
