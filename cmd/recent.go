package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show or clear recent translations",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent translations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		svc, err := bootstrap(cmd, bootstrapOpts{noTranslator: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		entries, err := svc.store.RecentRepo().List(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("list recent: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No recent translations.")
			return nil
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		printEntries(entries)
		return nil
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recent translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd, bootstrapOpts{noTranslator: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.store.RecentRepo().Clear(cmdContext(cmd)); err != nil {
			return fmt.Errorf("clear recent: %w", err)
		}
		fmt.Println("Recent translations cleared.")
		return nil
	},
}

func init() {
	recentListCmd.Flags().IntP("limit", "n", 0, "Number of entries to show (0 = all)")

	recentCmd.AddCommand(recentListCmd)
	recentCmd.AddCommand(recentClearCmd)
}
