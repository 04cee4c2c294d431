package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/app"
	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/llm"
	"github.com/abhisek/trans/internal/logger"
	"github.com/abhisek/trans/internal/screen"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
)

// services is everything a command may need, built once from config.
type services struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *store.Store
	provider   llm.Provider // nil when no LLM is configured
	translator translate.Translator
}

type bootstrapOpts struct {
	// tui keeps the logger off the terminal.
	tui bool
	// noTranslator skips backend setup for commands that only read the store.
	noTranslator bool
}

// bootstrap loads config, opens the store and builds the translator.
// Callers must Close the result.
func bootstrap(cmd *cobra.Command, opts bootstrapOpts) (*services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var log *zap.Logger
	if opts.tui {
		log, err = logger.ForTUI(cfg)
	} else {
		log, err = logger.New(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	driver, dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(cmdContext(cmd), driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := &services{cfg: cfg, logger: log, store: st}
	if opts.noTranslator {
		return svc, nil
	}

	svc.translator, svc.provider, err = buildTranslator(cmdContext(cmd), cfg, st.EventRepo(), log)
	if err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

// buildTranslator creates the configured backend. When an LLM provider is
// available it also segments single-block results. recorder may be nil.
func buildTranslator(ctx context.Context, cfg *config.Config, recorder llm.Recorder, log *zap.Logger) (translate.Translator, llm.Provider, error) {
	var provider llm.Provider
	if llmCfg, ok := cfg.LLMConfig(); ok {
		p, err := llm.NewProvider(ctx, llmCfg, recorder, log)
		if err != nil {
			// The google backend works without an LLM; only segmentation is lost.
			log.Warn("LLM provider unavailable", zap.String("provider", llmCfg.Provider), zap.Error(err))
		} else {
			provider = p
		}
	}

	t, err := translate.NewTranslator(cfg.Translate, provider, http.DefaultClient)
	if err != nil {
		return nil, nil, fmt.Errorf("build translator: %w", err)
	}
	if provider != nil && t.Name() != translate.BackendLLM {
		t = translate.WithSegmenter(t, provider, log)
	}
	return t, provider, nil
}

// Close releases the store and flushes the logger.
func (s *services) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// screenDeps adapts the services for the TUI.
func (s *services) screenDeps() screen.Deps {
	return screen.Deps{
		Translator:  s.translator,
		Favorites:   s.store.FavoriteRepo(),
		Recent:      s.store.RecentRepo(),
		Events:      s.store.EventRepo(),
		Preferences: s.store.PreferencesRepo(),
		Translate:   s.cfg.Translate,
		Quiz:        s.cfg.Quiz,
		Logger:      s.logger,
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, err := bootstrap(cmd, bootstrapOpts{tui: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	return app.Run(app.Options{Deps: svc.screenDeps()})
}
