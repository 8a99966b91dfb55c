package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current tracking state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := ctx.gate().Evaluate(time.Now())
			fmt.Println(state.StatusMessage)
			if state.CanToggle {
				if ctx.gate().Paused() {
					fmt.Println("Run 'zeit resume' to continue tracking")
				}
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the zeit version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("zeit " + cmd.Root().Version)
		},
	}
}
