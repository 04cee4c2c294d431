// Package server exposes translation and quizzes over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
)

const (
	quizIdleTimeout = 10 * time.Minute
	quizSweepEvery  = time.Minute
)

// Deps are the services the API is built on.
type Deps struct {
	Translator translate.Translator
	Favorites  store.FavoriteRepo
	Recent     store.RecentRepo
	Events     store.EventRepo
	Logger     *zap.Logger
}

// Server is the HTTP API behind `trans serve`.
type Server struct {
	cfg        config.Server
	quiz       config.Quiz
	translator translate.Translator
	favorites  store.FavoriteRepo
	recent     store.RecentRepo
	events     store.EventRepo
	logger     *zap.Logger
	quizzes    *registry
}

// New creates a Server.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	qc := cfg.Quiz
	if qc.TimeLimit < 1 {
		qc.TimeLimit = quiz.DefaultConfig().TimeLimit
	}
	if qc.Choices < 2 {
		qc.Choices = quiz.DefaultConfig().Choices
	}
	return &Server{
		cfg:        cfg.Server,
		quiz:       qc,
		translator: deps.Translator,
		favorites:  deps.Favorites,
		recent:     deps.Recent,
		events:     deps.Events,
		logger:     logger,
		quizzes:    newRegistry(quizIdleTimeout),
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(s.cfg.RequestTimeout))
	}
	r.Use(cors.Handler(corsOptions(s.cfg.AllowedOrigins)))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(maxBodySize(1 << 20))

		r.Get("/languages", s.languages)
		r.Post("/translate", s.translate)

		r.Post("/quizzes", s.createQuiz)
		r.Get("/quizzes/{id}", s.getQuiz)
		r.Post("/quizzes/{id}/events", s.quizEvent)
		r.Delete("/quizzes/{id}", s.deleteQuiz)

		r.Get("/favorites", s.listFavorites)
		r.Post("/favorites", s.addFavorite)
		r.Delete("/favorites/{id}", s.removeFavorite)

		r.Get("/recent", s.listRecent)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and closes every live quiz.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.quizzes.run(sweepCtx, quizSweepEvery)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.quizzes.closeAll()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.quizzes.closeAll()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
