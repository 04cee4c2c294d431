package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translation and quiz HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd, bootstrapOpts{})
		if err != nil {
			return err
		}
		defer svc.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			svc.cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(svc.cfg, server.Deps{
			Translator: svc.translator,
			Favorites:  svc.store.FavoriteRepo(),
			Recent:     svc.store.RecentRepo(),
			Events:     svc.store.EventRepo(),
			Logger:     svc.logger,
		})
		svc.logger.Info("starting API server",
			zap.String("addr", svc.cfg.Server.Addr),
			zap.String("backend", svc.translator.Name()))
		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
}
