package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		e, err := buildEnv(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()

		all, err := e.store.GetAllQuestionStats(ctx)
		if err != nil {
			return fmt.Errorf("read question stats: %w", err)
		}
		if len(all) == 0 {
			fmt.Println("No practice data recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "QUESTION\tATTEMPTS\tCORRECT\tRATE\tREVIEW")
		for _, s := range all {
			review := ""
			if s.NeedsReview {
				review = "yes"
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\t%s\n",
				s.QuestionID, s.TotalAttempts, s.CorrectAttempts, s.SuccessRate*100, review)
		}
		w.Flush()

		cats, err := e.store.GetCategoryStats(ctx)
		if err != nil {
			return fmt.Errorf("read category stats: %w", err)
		}
		if len(cats) > 0 {
			names := make([]string, 0, len(cats))
			for name := range cats {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Println("\nBy category:")
			for _, name := range names {
				p := cats[name]
				fmt.Printf("  %s: %d/%d (%.0f%%)\n", name, p.Correct, p.Total, p.Rate*100)
			}
		}

		if weak := e.scheduler.WeakCategories(ctx); len(weak) > 0 {
			fmt.Printf("\nWeak categories: %v\n", weak)
		}
		return nil
	},
}
