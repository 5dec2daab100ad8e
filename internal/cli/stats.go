package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"trivia-scoring/internal/domain"
)

// NewStatsCmd prints the persisted score and today's aggregates.
func NewStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show score and today's statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			engine, _, _, closeStore, err := newEngine(ctx, *configPath)
			if err != nil {
				return err
			}
			defer closeStore()
			printStats(cmd.OutOrStdout(), engine.ScoreInfo(ctx), engine.TodayStats(ctx))
			return nil
		},
	}
}

func printStats(w io.Writer, info domain.ScoreInfo, today domain.TodayStats) {
	fmt.Fprintf(w, "Daily score:      %d\n", info.DailyScore)
	fmt.Fprintf(w, "Current streak:   %d (level %d)\n", info.CurrentStreak, info.StreakLevel)
	fmt.Fprintf(w, "Highest streak:   %d\n", info.HighestStreak)
	fmt.Fprintf(w, "All-time answers: %d correct of %d (%d%%)\n", info.CorrectAnswers, info.TotalQuestions, info.Accuracy)
	fmt.Fprintf(w, "Today (%s):  %d correct of %d (%d%%)\n", today.Date, today.CorrectAnswers, today.TotalQuestions, today.Accuracy)
	printCounts(w, "Categories", today.CategoryCounts)
	printCounts(w, "Difficulties", today.DifficultyCounts)
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-12s %d\n", k, counts[k])
	}
}
