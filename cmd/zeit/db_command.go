package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDBInfoCommand(ctx))
	cmd.AddCommand(newDBDeleteCommand(ctx))

	return cmd
}

func newDBInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show database location and row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Info()
			if err != nil {
				return err
			}

			fmt.Printf("Database: %s\n", info.Path)
			fmt.Printf("Size:     %.1f KiB\n", float64(info.SizeBytes)/1024)
			fmt.Printf("Days:     %d\n", info.Days)
			fmt.Printf("Samples:  %d\n", info.Samples)
			return nil
		},
	}
}

func newDBDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [today|yesterday|DATE]",
		Short: "Delete a day's activity record",
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

			if !yes && !confirm(fmt.Sprintf(
				"Delete all %d activities for %s?", len(rec.Entries), date)) {
				fmt.Println("Cancelled")
				return nil
			}

			if _, err := s.Delete(date); err != nil {
				return err
			}
			fmt.Printf("Deleted %d activities for %s\n", len(rec.Entries), date)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
