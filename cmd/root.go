package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "trans",
	Short: "Translate text and quiz yourself on it",
	Long:  "Trans is a terminal translator with multiple-choice and timed quizzes over the phrases you translate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides db.dsn and TRANS_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config, or the standard
// locations when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDSN returns the driver and DSN using --db (highest priority),
// then db.dsn, then the default XDG path.
func resolveDSN(cmd *cobra.Command, cfg *config.Config) (driver, dsn string, err error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return store.DriverSQLite, p, store.EnsureDir(p)
	}
	if cfg.DB.DSN != "" {
		return cfg.DB.Driver, cfg.DB.DSN, nil
	}
	p, err := store.DefaultDBPath()
	return store.DriverSQLite, p, err
}
