package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/trans/internal/store"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage saved translations",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd, bootstrapOpts{noTranslator: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		entries, err := svc.store.FavoriteRepo().List(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("list favorites: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No favorites yet.")
			return nil
		}
		printEntries(entries)
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Translate text and save the result as a favorite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd, bootstrapOpts{})
		if err != nil {
			return err
		}
		defer svc.Close()

		req := requestFromFlags(cmd, svc.cfg.Translate, strings.Join(args, " "))
		t, err := svc.translator.Translate(cmdContext(cmd), req)
		if err != nil {
			return fmt.Errorf("translate: %w", err)
		}

		e, added, err := svc.store.FavoriteRepo().Add(cmdContext(cmd), store.Entry{
			Input:      t.Input,
			Output:     t.Output,
			SourceLang: t.SourceLanguage(),
			TargetLang: t.Target,
		})
		if err != nil {
			return fmt.Errorf("add favorite: %w", err)
		}
		if !added {
			fmt.Printf("Already saved as #%d: %s → %s\n", e.ID, e.Input, e.Output)
			return nil
		}
		fmt.Printf("★ Saved #%d: %s → %s\n", e.ID, e.Input, e.Output)
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a favorite by ID",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		svc, err := bootstrap(cmd, bootstrapOpts{noTranslator: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		err = svc.store.FavoriteRepo().Remove(cmdContext(cmd), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("favorite %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
		fmt.Printf("Removed favorite %d.\n", id)
		return nil
	},
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap(cmd, bootstrapOpts{noTranslator: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.store.FavoriteRepo().Clear(cmdContext(cmd)); err != nil {
			return fmt.Errorf("clear favorites: %w", err)
		}
		fmt.Println("Favorites cleared.")
		return nil
	},
}

// printEntries prints saved translations as a table.
func printEntries(entries []store.Entry) {
	fmt.Printf("%-5s  %-16s  %-9s  %-30s  %s\n", "ID", "Saved", "Langs", "Input", "Output")
	fmt.Println(strings.Repeat("─", 90))
	for _, e := range entries {
		fmt.Printf("%-5d  %-16s  %-9s  %-30s  %s\n",
			e.ID,
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.SourceLang+"→"+e.TargetLang,
			truncate(e.Input, 30),
			e.Output,
		)
	}
}

func init() {
	favoritesAddCmd.Flags().String("from", "", "Source language code")
	favoritesAddCmd.Flags().String("to", "", "Target language code")
	favoritesAddCmd.Flags().String("style", "", "Translation style")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesClearCmd)
}
