// Package main is the zeit command line interface.
//
// Usage:
//
//	zeit track            - Run one sampling tick (invoked by the scheduler)
//	zeit daemon           - Run the in-process minute scheduler
//	zeit view [DATE]      - Show recorded activities
//	zeit stats [DATE]     - Show percentage breakdowns
//	zeit summarize [DATE] - Generate a day narrative
//	zeit objectives       - Manage day objectives
//	zeit pause / resume   - Toggle manual tracking pause
//	zeit status           - Show the current tracking state
//	zeit db               - Database maintenance
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
