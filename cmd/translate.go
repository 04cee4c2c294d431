package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/store"
	"github.com/abhisek/trans/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate text and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranslate,
}

func init() {
	translateCmd.Flags().String("from", "", "Source language code (default from config, \"auto\" to detect)")
	translateCmd.Flags().String("to", "", "Target language code (default from config)")
	translateCmd.Flags().String("style", "", "Translation style: "+strings.Join(translate.Styles, ", "))
	translateCmd.Flags().Bool("json", false, "Print the full result as JSON")
}

func runTranslate(cmd *cobra.Command, args []string) error {
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

	if _, err := svc.store.RecentRepo().Record(cmdContext(cmd), store.Entry{
		Input:      t.Input,
		Output:     t.Output,
		SourceLang: t.SourceLanguage(),
		TargetLang: t.Target,
	}); err != nil {
		svc.logger.Warn("failed to record recent translation", zap.Error(err))
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
	printTranslation(t)
	return nil
}

// requestFromFlags builds a request from --from/--to/--style with the
// configured translate.* values as defaults.
func requestFromFlags(cmd *cobra.Command, defaults config.Translate, text string) translate.Request {
	req := translate.Request{
		Text:   strings.TrimSpace(text),
		Source: defaults.Source,
		Target: defaults.Target,
		Style:  defaults.Style,
	}
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		req.Source = v
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		req.Target = v
	}
	if v, _ := cmd.Flags().GetString("style"); v != "" {
		req.Style = v
	}
	if req.Source == "" {
		req.Source = translate.Auto
	}
	return req
}

func printTranslation(t *translate.Translation) {
	fmt.Println(t.Output)
	if t.Transliteration != "" {
		fmt.Printf("  (%s)\n", t.Transliteration)
	}

	from := translate.LanguageLabel(t.SourceLanguage())
	if t.Source == translate.Auto && t.Detected != "" {
		from += " (detected)"
	}
	fmt.Printf("\n%s → %s via %s\n", from, translate.LanguageLabel(t.Target), t.Backend)

	if len(t.Segments) > 1 {
		fmt.Println(strings.Repeat("─", 40))
		for _, seg := range t.Segments {
			if seg.Eligible() {
				fmt.Printf("%s  →  %s\n", seg.Original, seg.Translated)
			}
		}
	}
}
