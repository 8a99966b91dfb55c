// Package tracker decides whether a tick records anything and runs the
// per-tick pipeline when it does.
package tracker

import (
	"fmt"
	"os"
	"time"

	"github.com/invariante/zeit/internal/config"
)

// StateKind is the gate's decision for a moment in time.
type StateKind int

const (
	// OutsideWorkHours means tracking is off because of the schedule.
	// It wins over a manual pause: the pause toggle is meaningless
	// outside the configured window.
	OutsideWorkHours StateKind = iota
	// ManuallyPaused means the user switched tracking off.
	ManuallyPaused
	// Active means this tick should record.
	Active
)

func (k StateKind) String() string {
	switch k {
	case OutsideWorkHours:
		return "outside_work_hours"
	case ManuallyPaused:
		return "paused"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// State is the gate's full answer: the decision, a human-readable status
// line, and whether the manual pause toggle currently has any effect.
type State struct {
	Kind          StateKind
	StatusMessage string
	CanToggle     bool
}

// Gate evaluates the work-hours schedule and the manual pause flag.
// The flag is a file so a pause outlives the short-lived tick process.
type Gate struct {
	hours    config.WorkHours
	stopFlag string
}

// NewGate creates a Gate. stopFlag is the path of the pause marker file.
func NewGate(hours config.WorkHours, stopFlag string) *Gate {
	return &Gate{hours: hours, stopFlag: stopFlag}
}

// Evaluate decides what the tick at time now should do. The schedule is
// checked first; the pause flag only matters inside work hours.
func (g *Gate) Evaluate(now time.Time) State {
	if !g.hours.Contains(now) {
		return State{
			Kind:          OutsideWorkHours,
			StatusMessage: g.hours.StatusMessage(now),
			CanToggle:     false,
		}
	}
	if g.Paused() {
		return State{
			Kind:          ManuallyPaused,
			StatusMessage: "Tracking paused",
			CanToggle:     true,
		}
	}
	return State{
		Kind:          Active,
		StatusMessage: g.hours.StatusMessage(now),
		CanToggle:     true,
	}
}

// Paused reports whether the pause flag is set.
func (g *Gate) Paused() bool {
	_, err := os.Stat(g.stopFlag)
	return err == nil
}

// Pause sets the pause flag. Pausing while paused is a no-op.
func (g *Gate) Pause() error {
	f, err := os.OpenFile(g.stopFlag, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to set pause flag: %w", err)
	}
	return f.Close()
}

// Resume clears the pause flag. Resuming while running is a no-op.
func (g *Gate) Resume() error {
	err := os.Remove(g.stopFlag)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear pause flag: %w", err)
	}
	return nil
}
