package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/trans/internal/logger"
	"github.com/abhisek/trans/internal/quiz"
	"github.com/abhisek/trans/internal/translate"
)

var drillCmd = &cobra.Command{
	Use:   "drill [text]",
	Short: "Run a multiple-choice quiz in plain terminal output (no database)",
	Long: `Answer multiple-choice questions line by line, without the full-screen UI.

This is stateless: nothing is recorded and LLM calls are not logged to the
database. Useful over ssh, in scripts, or for checking segment files.`,
	RunE: runDrill,
}

func init() {
	addSegmentFlags(drillCmd)
}

func runDrill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	set, err := loadSegments(cmd, args, cfg, func() (translate.Translator, error) {
		t, _, err := buildTranslator(cmdContext(cmd), cfg, nil, log)
		return t, err
	})
	if err != nil {
		return err
	}

	qc := quiz.DefaultConfig()
	qc.Choices = cfg.Quiz.Choices
	if set.Target != "" {
		qc.TargetLabel = translate.LanguageLabel(set.Target)
	}
	return drill(quiz.NewMachine(qc, nil), set.Segments, os.Stdin, cmd.OutOrStdout())
}

// drill plays one multiple-choice run over segments, reading answers from
// in. Choices can be picked by number or typed out; h shows the hint.
func drill(m *quiz.Machine, segments []quiz.Segment, in io.Reader, out io.Writer) error {
	st, err := m.Apply(m.Initial(), quiz.Initialize{Segments: segments})
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)

	for !st.Completed() {
		p := st.Prompt()
		fmt.Fprintf(out, "── Question %d/%d ──\n", st.Question.Index+1, st.Len())
		fmt.Fprintln(out, p.Instruction)
		fmt.Fprintln(out, p.Phrase)
		if p.Hint != "" {
			fmt.Fprintf(out, "(%s)\n", p.Hint)
		}
		for j, c := range p.Choices {
			fmt.Fprintf(out, "  %d) %s\n", j+1, c)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(answer, "h") {
			if st.HintAvailable() {
				st, _ = m.Apply(st, quiz.ToggleHint{})
			} else {
				fmt.Fprintln(out, "No hint for this one.")
			}
			fmt.Fprintln(out)
			continue
		}

		choice, ok := pickChoice(answer, st.Question.Choices)
		if !ok {
			fmt.Fprintln(out, "Pick one of the numbers above.")
			fmt.Fprintln(out)
			continue
		}

		if st, err = m.Apply(st, quiz.SubmitAnswer{Choice: choice}); err != nil {
			return err
		}
		if fb := st.Last; fb.Correct {
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", fb.Expected)
		}
		fmt.Fprintln(out)

		if st, err = m.Apply(st, quiz.Advance{}); err != nil {
			return err
		}
	}

	res := st.Result()
	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", res.Correct, res.Total)
	return nil
}

// pickChoice resolves a 1-based number or the text of a choice.
func pickChoice(answer string, choices []string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], true
		}
		return "", false
	}
	for _, c := range choices {
		if answer != "" && strings.EqualFold(c, answer) {
			return c, true
		}
	}
	return "", false
}
