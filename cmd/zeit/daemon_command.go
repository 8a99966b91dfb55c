package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the in-process minute scheduler",
		Long: `Run ticks from an in-process scheduler instead of an external one.
A file lock guarantees a single daemon per data directory, and a tick
that overruns the minute is skipped rather than run concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.cfg.EnsureDataDir(); err != nil {
				return err
			}

			lock := flock.New(filepath.Join(ctx.cfg.Paths.DataDir, "daemon.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("failed to acquire daemon lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another zeit daemon is already running")
			}
			defer lock.Unlock()

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runner, err := ctx.buildRunner(s)
			if err != nil {
				return err
			}

			// Ticks are synchronous by construction: if one overruns the
			// minute, the next firing is dropped.
			var running atomic.Bool
			c := cron.New()
			if _, err := c.AddFunc("* * * * *", func() {
				if !running.CompareAndSwap(false, true) {
					ctx.log.Warn().Msg("previous tick still running, skipping")
					return
				}
				defer running.Store(false)

				if _, err := runner.Tick(cmd.Context(), time.Now(), false); err != nil {
					ctx.log.Error().Err(err).Msg("tick failed")
				}
			}); err != nil {
				return fmt.Errorf("failed to schedule ticks: %w", err)
			}

			c.Start()
			ctx.log.Info().Msg("daemon started, sampling every minute")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sig:
			case <-cmd.Context().Done():
			}

			ctx.log.Info().Msg("daemon stopping")
			stopCtx := c.Stop()
			<-stopCtx.Done()
			return nil
		},
	}
}
