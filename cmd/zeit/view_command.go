package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invariante/zeit/internal/store"
)

func newViewCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "view [today|yesterday|DATE]",
		Short: "Show recorded activities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if all {
				return viewAll(s)
			}

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			date, err := resolveDate(arg)
			if err != nil {
				return err
			}
			return viewDay(s, date)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show every recorded day")

	return cmd
}

func viewDay(s *store.Store, date string) error {
	rec, err := s.Get(date)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Printf("No activities recorded for %s\n", date)
		return nil
	}

	printDay(s, rec)
	return nil
}

func viewAll(s *store.Store) error {
	dates, err := s.Dates()
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Println("No activities recorded yet")
		return nil
	}

	for i, date := range dates {
		if i > 0 {
			fmt.Println()
		}
		rec, err := s.Get(date)
		if err != nil {
			return err
		}
		printDay(s, rec)
	}
	return nil
}

func printDay(s *store.Store, rec *store.DayRecord) {
	fmt.Printf("=== %s (%d samples) ===\n", rec.Date, len(rec.Entries))

	if obj, err := s.GetObjectives(rec.Date); err == nil && obj != nil {
		fmt.Printf("Main objective: %s\n", obj.Main)
		for _, sec := range obj.Secondary {
			fmt.Printf("  - %s\n", sec)
		}
	}

	for _, e := range rec.Entries {
		line := fmt.Sprintf("%s  %s", e.Timestamp.Format("15:04:05"), e.Activity.Label())
		if e.Reasoning != "" {
			line += "  " + e.Reasoning
		}
		fmt.Println(line)
	}
}
