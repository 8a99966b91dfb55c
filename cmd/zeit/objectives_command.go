package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invariante/zeit/internal/store"
)

func newObjectivesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objectives",
		Short: "Manage day objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newObjectivesSetCommand(ctx))
	cmd.AddCommand(newObjectivesShowCommand(ctx))
	cmd.AddCommand(newObjectivesDeleteCommand(ctx))

	return cmd
}

func newObjectivesSetCommand(ctx *commandContext) *cobra.Command {
	var date string
	var secondary []string

	cmd := &cobra.Command{
		Use:   "set MAIN_OBJECTIVE",
		Short: "Set the main objective (and up to two secondary ones) for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveDate(date)
			if err != nil {
				return err
			}
			if len(secondary) > 2 {
				return fmt.Errorf("at most two secondary objectives are supported")
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveObjectives(store.Objectives{
				Date:      resolved,
				Main:      args[0],
				Secondary: secondary,
			}); err != nil {
				return err
			}

			fmt.Printf("Objectives set for %s\n", resolved)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Target date (default today)")
	cmd.Flags().StringArrayVarP(&secondary, "secondary", "s", nil, "Secondary objective (repeatable, max 2)")

	return cmd
}

func newObjectivesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [today|yesterday|DATE]",
		Short: "Show a day's objectives",
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

			obj, err := s.GetObjectives(date)
			if err != nil {
				return err
			}
			if obj == nil {
				fmt.Printf("No objectives set for %s\n", date)
				return nil
			}

			fmt.Printf("Objectives for %s\n", date)
			fmt.Printf("Main: %s\n", obj.Main)
			for _, sec := range obj.Secondary {
				fmt.Printf("  - %s\n", sec)
			}
			return nil
		},
	}
}

func newObjectivesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [today|yesterday|DATE]",
		Short: "Delete a day's objectives",
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

			deleted, err := s.DeleteObjectives(date)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Printf("No objectives set for %s\n", date)
				return nil
			}
			fmt.Printf("Objectives deleted for %s\n", date)
			return nil
		},
	}
}
