// Package idle measures how long the user has been without input.
package idle

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Detector reads the system idle time.
type Detector struct {
	goos string
	log  zerolog.Logger
}

// New creates a new idle Detector for the current OS.
func New(logger zerolog.Logger) *Detector {
	return &Detector{
		goos: runtime.GOOS,
		log:  logger.With().Str("component", "idle").Logger(),
	}
}

// Seconds returns the time since the last user input. Callers treat an
// error here as "assume active", never as a reason to skip a tick.
func (d *Detector) Seconds(ctx context.Context) (float64, error) {
	switch d.goos {
	case "darwin":
		return d.secondsDarwin(ctx)
	case "linux":
		return d.secondsLinux(ctx)
	default:
		return 0, fmt.Errorf("idle detection not supported on %s", d.goos)
	}
}

func (d *Detector) secondsDarwin(ctx context.Context) (float64, error) {
	cmd := exec.CommandContext(ctx, "ioreg", "-c", "IOHIDSystem")
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg failed: %w", err)
	}
	return parseIoregIdle(string(output))
}

// parseIoregIdle extracts HIDIdleTime (nanoseconds) from ioreg output.
func parseIoregIdle(output string) (float64, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		i := strings.LastIndex(line, "=")
		if i < 0 {
			continue
		}
		ns, err := strconv.ParseInt(strings.TrimSpace(line[i+1:]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse HIDIdleTime: %w", err)
		}
		return float64(ns) / 1e9, nil
	}
	return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
}

func (d *Detector) secondsLinux(ctx context.Context) (float64, error) {
	cmd := exec.CommandContext(ctx, "xprintidle")
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle failed: %w", err)
	}
	return parseXprintidle(string(output))
}

// parseXprintidle converts xprintidle's milliseconds to seconds.
func parseXprintidle(output string) (float64, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse xprintidle output: %w", err)
	}
	return float64(ms) / 1000, nil
}
