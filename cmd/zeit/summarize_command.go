package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invariante/zeit/internal/summary"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [today|yesterday|DATE]",
		Short: "Generate a narrative summary of a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			date, err := resolveDate(arg)
			if err != nil {
				return err
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.Get(date)
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Printf("No activities recorded for %s\n", date)
				return nil
			}

			var objectives *summary.Objectives
			stored, err := s.GetObjectives(date)
			if err != nil {
				return err
			}
			if stored != nil {
				objectives = &summary.Objectives{Main: stored.Main, Secondary: stored.Secondary}
			}

			summarizer := summary.New(ctx.textModel(), ctx.log)
			result, err := summarizer.Summarize(cmd.Context(), rec.Entries, objectives)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Printf("Nothing to summarize for %s (no active samples)\n", date)
				return nil
			}

			fmt.Printf("=== %s (%s - %s) ===\n",
				date, result.StartTime.Format("15:04"), result.EndTime.Format("15:04"))
			if objectives != nil {
				fmt.Printf("Main objective: %s\n", objectives.Main)
			}
			fmt.Println()
			fmt.Println(result.Summary)
			return nil
		},
	}
}
