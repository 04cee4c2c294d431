package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/trans/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished quizzes and overall accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")

		svc, err := bootstrap(cmd, bootstrapOpts{noTranslator: true})
		if err != nil {
			return err
		}
		defer svc.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since).UTC()
		}
		sessions, err := svc.store.EventRepo().QueryQuizSessions(cmdContext(cmd), opts)
		if err != nil {
			return fmt.Errorf("query quiz sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No quizzes finished yet.")
			return nil
		}

		fmt.Printf("%-16s  %-5s  %-7s  %-9s  %8s  %6s  %6s  %6s\n",
			"Finished", "Mode", "Dir", "Langs", "Correct", "Acc", "Points", "Time")
		fmt.Println(strings.Repeat("─", 80))

		var answered, correct int
		for _, s := range sessions {
			dir := s.Direction
			if dir == "" {
				dir = "-"
			}
			fmt.Printf("%-16s  %-5s  %-7s  %-9s  %8s  %5.0f%%  %6d  %3d:%02d\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				s.Mode,
				dir,
				s.SourceLang+"→"+s.TargetLang,
				fmt.Sprintf("%d/%d", s.Correct, s.Answered),
				s.Accuracy()*100,
				s.Points,
				s.DurationSecs/60, s.DurationSecs%60,
			)
			answered += s.Answered
			correct += s.Correct
		}

		fmt.Println(strings.Repeat("─", 80))
		total := store.QuizSessionSummary{Answered: answered, Correct: correct}
		fmt.Printf("%d quizzes, %d/%d answers correct (%.0f%%)\n",
			len(sessions), correct, answered, total.Accuracy()*100)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyCmd.Flags().Duration("since", 0, "Only show quizzes finished within this duration (e.g. 168h)")
}
