package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invariante/zeit/internal/stats"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var includeIdle bool

	cmd := &cobra.Command{
		Use:   "stats [today|yesterday|DATE]",
		Short: "Show percentage breakdowns for a day",
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

			ds := stats.ComputeDayStats(date, rec.Entries)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(ds)
			}

			fmt.Printf("=== %s (%d samples) ===\n", ds.Date, ds.TotalSamples)
			fmt.Printf("Work: %.1f%%  Personal: %.1f%%  Idle: %.1f%%\n\n",
				ds.WorkPercentage, ds.PersonalPercentage, ds.IdlePercentage)

			for _, st := range stats.Breakdown(rec.Entries, includeIdle) {
				fmt.Printf("%6.1f%%  %-25s (%d samples, %s)\n",
					st.Percentage, st.Activity.Label(), st.Count, st.Category)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	cmd.Flags().BoolVar(&includeIdle, "include-idle", false, "Include idle samples in the breakdown")

	return cmd
}
