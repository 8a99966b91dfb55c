package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invariante/zeit/internal/tracker"
)

func newTrackCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run one sampling tick",
		Long: `Run one sampling tick: evaluate the tracking gate, check idle time,
capture the screens, classify the activity, and store one entry.
Meant to be fired by an external scheduler roughly once a minute.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if delay > 0 {
				ctx.log.Info().Dur("delay", delay).Msg("delaying tick")
				select {
				case <-time.After(delay):
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runner, err := ctx.buildRunner(s)
			if err != nil {
				return err
			}

			outcome, err := runner.Tick(cmd.Context(), time.Now(), force)
			if err != nil {
				return err
			}

			switch outcome {
			case tracker.TickRecorded:
				fmt.Println("Activity recorded")
			case tracker.TickIdle:
				fmt.Println("User idle, idle entry recorded")
			case tracker.TickSkipped:
				fmt.Println(ctx.gate().Evaluate(time.Now()).StatusMessage)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Record even outside work hours or while paused")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Wait before sampling (useful when run at login)")

	return cmd
}
