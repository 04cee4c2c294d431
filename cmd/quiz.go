package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/trans/internal/app"
	"github.com/abhisek/trans/internal/config"
	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/translate"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [text]",
	Short: "Quiz yourself on a segment file or a fresh translation",
	Long: `Start a quiz in the terminal UI.

Segments come from --file (a JSON array of {original, translated} pairs, or the
output of "trans translate --json"), or from translating the given text.`,
	RunE: runQuiz,
}

func init() {
	addSegmentFlags(quizCmd)
	quizCmd.Flags().String("mode", "mc", "Quiz mode: mc or timed")
	quizCmd.Flags().Bool("reverse", false, "Timed mode: answer with the original instead of the translation")
}

// addSegmentFlags registers the flags shared by commands that quiz over
// segments.
func addSegmentFlags(c *cobra.Command) {
	c.Flags().StringP("file", "f", "", "JSON file with segments to quiz on")
	c.Flags().String("from", "", "Source language code when translating text")
	c.Flags().String("to", "", "Target language code when translating text")
	c.Flags().String("style", "", "Translation style when translating text")
}

func runQuiz(cmd *cobra.Command, args []string) error {
	modeName, _ := cmd.Flags().GetString("mode")
	mode, err := quiz.ParseMode(modeName)
	if err != nil {
		return err
	}
	dir := quiz.DirectionForward
	if reverse, _ := cmd.Flags().GetBool("reverse"); reverse {
		dir = quiz.DirectionReverse
	}

	svc, err := bootstrap(cmd, bootstrapOpts{tui: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	set, err := loadSegments(cmd, args, svc.cfg, func() (translate.Translator, error) {
		return svc.translator, nil
	})
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Deps: svc.screenDeps(),
		Quiz: &app.QuizStart{
			Segments:   set.Segments,
			Mode:       mode,
			Direction:  dir,
			SourceLang: set.Source,
			TargetLang: set.Target,
		},
	})
}

// segmentSet is what a quiz runs over.
type segmentSet struct {
	Segments []quiz.Segment
	Source   string
	Target   string
}

// loadSegments reads --file when given, otherwise translates args.
func loadSegments(cmd *cobra.Command, args []string, cfg *config.Config, translator func() (translate.Translator, error)) (segmentSet, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return segmentSet{}, fmt.Errorf("read segments: %w", err)
		}
		set, err := parseSegments(data)
		if err != nil {
			return segmentSet{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(quiz.FilterEligible(set.Segments)) == 0 {
			return segmentSet{}, fmt.Errorf("%s: %w", path, quiz.ErrNoEligibleSegments)
		}
		return set, nil
	}

	if len(args) == 0 {
		return segmentSet{}, errors.New("give some text to translate or --file")
	}
	tr, err := translator()
	if err != nil {
		return segmentSet{}, err
	}
	req := requestFromFlags(cmd, cfg.Translate, strings.Join(args, " "))
	t, err := tr.Translate(cmdContext(cmd), req)
	if err != nil {
		return segmentSet{}, fmt.Errorf("translate: %w", err)
	}
	if len(quiz.FilterEligible(t.Segments)) == 0 {
		return segmentSet{}, quiz.ErrNoEligibleSegments
	}
	return segmentSet{Segments: t.Segments, Source: t.SourceLanguage(), Target: t.Target}, nil
}

// parseSegments accepts either a bare segment array or a translation
// object as printed by `trans translate --json`.
func parseSegments(data []byte) (segmentSet, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var segs []quiz.Segment
		if err := json.Unmarshal(data, &segs); err != nil {
			return segmentSet{}, err
		}
		return segmentSet{Segments: segs}, nil
	}

	var t translate.Translation
	if err := json.Unmarshal(data, &t); err != nil {
		return segmentSet{}, err
	}
	return segmentSet{Segments: t.Segments, Source: t.SourceLanguage(), Target: t.Target}, nil
}
