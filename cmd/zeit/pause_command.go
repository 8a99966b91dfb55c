package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPauseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause tracking until resumed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gate := ctx.gate()
			state := gate.Evaluate(time.Now())
			if !state.CanToggle {
				fmt.Println(state.StatusMessage)
				return nil
			}
			if gate.Paused() {
				fmt.Println("Tracking is already paused")
				return nil
			}
			if err := gate.Pause(); err != nil {
				return err
			}
			fmt.Println("Tracking paused")
			return nil
		},
	}
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume paused tracking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gate := ctx.gate()
			if !gate.Paused() {
				fmt.Println("Tracking is not paused")
				return nil
			}
			if err := gate.Resume(); err != nil {
				return err
			}
			fmt.Println("Tracking resumed")
			return nil
		},
	}
}
