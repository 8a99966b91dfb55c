// Package screen captures one screenshot per physical monitor.
//
// Monitors get stable 1-based indices in enumeration order, matching the
// order the classifier sees the images and the order the window locator
// resolves against. The virtual "all outputs combined" capture is never
// used; every shot is a single physical output.
//
// Screenshots live in a per-tick temp directory and are deleted when the
// Shots scope is closed. They must not be referenced after Close.
package screen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/invariante/zeit/internal/platform"
)

// ErrNoMonitors means monitor enumeration returned nothing to capture.
var ErrNoMonitors = errors.New("no monitors found")

// Rect is a monitor or window bounding rectangle in global screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) lies within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Shots is the scoped result of a multi-monitor capture. All screenshot
// files are removed when Close is called; Close is idempotent and safe on
// every exit path.
type Shots struct {
	dir    string
	paths  map[int]string
	bounds []Rect
	closed bool
}

// NewShots builds a Shots scope over existing files. Used by the capturer
// and by tests composing capture results.
func NewShots(dir string, paths map[int]string, bounds []Rect) *Shots {
	return &Shots{dir: dir, paths: paths, bounds: bounds}
}

// Count returns the number of captured monitors.
func (s *Shots) Count() int {
	return len(s.paths)
}

// Path returns the screenshot path for a 1-based monitor index.
func (s *Shots) Path(index int) (string, bool) {
	p, ok := s.paths[index]
	return p, ok
}

// Indexes returns the monitor indices in ascending order.
func (s *Shots) Indexes() []int {
	out := make([]int, 0, len(s.paths))
	for idx := range s.paths {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Bounds returns the monitor rectangles in the same order as the capture
// indices (bounds[0] is monitor 1).
func (s *Shots) Bounds() []Rect {
	return s.bounds
}

// Close deletes every captured screenshot. It never fails a tick: cleanup
// errors are returned for logging only.
func (s *Shots) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.dir == "" {
		return nil
	}
	return os.RemoveAll(s.dir)
}

// Capturer captures screenshots of all monitors.
type Capturer struct {
	platform *platform.Platform
	log      zerolog.Logger
}

// New creates a new screen Capturer.
func New(plat *platform.Platform, logger zerolog.Logger) *Capturer {
	return &Capturer{
		platform: plat,
		log:      logger.With().Str("component", "screen").Logger(),
	}
}

// Capture enumerates monitors and captures one PNG per monitor into a
// fresh temp directory. On any failure every file already produced is
// removed before returning.
func (c *Capturer) Capture(ctx context.Context) (*Shots, error) {
	monitors, err := c.monitors(ctx)
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, ErrNoMonitors
	}

	dir, err := os.MkdirTemp("", "zeit-shots-")
	if err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	now := time.Now().Format("20060102T150405")
	paths := make(map[int]string, len(monitors))
	bounds := make([]Rect, 0, len(monitors))
	shots := NewShots(dir, paths, nil)

	for i, mon := range monitors {
		index := i + 1
		path := filepath.Join(dir, fmt.Sprintf("screenshot_%d_%s.png", index, now))
		if err := c.captureOutput(ctx, mon.Name, index, path); err != nil {
			_ = shots.Close()
			return nil, fmt.Errorf("failed to capture monitor %d (%s): %w", index, mon.Name, err)
		}
		paths[index] = path
		bounds = append(bounds, mon.Rect)
	}
	shots.bounds = bounds

	c.log.Debug().Int("monitors", len(paths)).Str("dir", dir).Msg("captured screens")
	return shots, nil
}

// monitor is one enumerated physical output.
type monitor struct {
	Name string
	Rect Rect
}

// monitors enumerates physical outputs in a stable order.
func (c *Capturer) monitors(ctx context.Context) ([]monitor, error) {
	switch c.platform.DisplayServer {
	case platform.DisplayServerHyprland:
		return c.monitorsHyprland(ctx)
	case platform.DisplayServerSway:
		return c.monitorsSway(ctx)
	case platform.DisplayServerMacOS:
		return c.monitorsMacOS(ctx)
	default:
		return nil, fmt.Errorf("screen capture not supported on %s", c.platform.DisplayServer)
	}
}

// hyprlandMonitor is the relevant subset of hyprctl monitors -j output.
type hyprlandMonitor struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (c *Capturer) monitorsHyprland(ctx context.Context) ([]monitor, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", "monitors", "-j")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("hyprctl monitors failed: %w", err)
	}
	return parseHyprlandMonitors(output)
}

func parseHyprlandMonitors(output []byte) ([]monitor, error) {
	var raw []hyprlandMonitor
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse monitors: %w", err)
	}

	// hyprctl order can vary between calls; sort by id so capture indices
	// stay stable across the tick.
	sort.Slice(raw, func(i, j int) bool { return raw[i].ID < raw[j].ID })

	monitors := make([]monitor, 0, len(raw))
	for _, m := range raw {
		monitors = append(monitors, monitor{
			Name: m.Name,
			Rect: Rect{X: m.X, Y: m.Y, W: m.Width, H: m.Height},
		})
	}
	return monitors, nil
}

// swayOutput is the relevant subset of swaymsg -t get_outputs output.
type swayOutput struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Rect   struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"rect"`
}

func (c *Capturer) monitorsSway(ctx context.Context) ([]monitor, error) {
	cmd := exec.CommandContext(ctx, "swaymsg", "-t", "get_outputs")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("swaymsg get_outputs failed: %w", err)
	}
	return parseSwayOutputs(output)
}

func parseSwayOutputs(output []byte) ([]monitor, error) {
	var raw []swayOutput
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse outputs: %w", err)
	}

	var monitors []monitor
	for _, o := range raw {
		if !o.Active {
			continue
		}
		monitors = append(monitors, monitor{
			Name: o.Name,
			Rect: Rect{X: o.Rect.X, Y: o.Rect.Y, W: o.Rect.Width, H: o.Rect.Height},
		})
	}
	return monitors, nil
}

// displaysScript prints all NSScreen frames as JSON, in AppKit's
// bottom-left-origin coordinates. NSScreen order matches the display
// numbers screencapture -D expects.
const displaysScript = `ObjC.import("AppKit");
var screens = $.NSScreen.screens;
var out = [];
for (var i = 0; i < screens.count; i++) {
	var f = screens.objectAtIndex(i).frame;
	out.push({x: f.origin.x, y: f.origin.y, w: f.size.width, h: f.size.height});
}
JSON.stringify(out);`

func (c *Capturer) monitorsMacOS(ctx context.Context) ([]monitor, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", displaysScript)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("osascript display enumeration failed: %w", err)
	}
	return parseMacOSDisplays(output)
}

// macDisplay is one NSScreen frame. AppKit frames are floats and can be
// fractional under display scaling.
type macDisplay struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// parseMacOSDisplays converts AppKit frames to top-left-origin rects so
// they live in the same coordinate space as the window locator. AppKit's
// y axis grows upward from the main screen's bottom-left corner, so each
// frame is flipped against the main screen's height.
func parseMacOSDisplays(output []byte) ([]monitor, error) {
	var raw []macDisplay
	if err := json.Unmarshal(bytes.TrimSpace(output), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse displays: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	// NSScreen puts the main screen first with its origin at (0, 0).
	mainHeight := raw[0].H
	monitors := make([]monitor, 0, len(raw))
	for i, d := range raw {
		monitors = append(monitors, monitor{
			Name: fmt.Sprintf("display %d", i+1),
			Rect: Rect{
				X: int(d.X),
				Y: int(mainHeight - d.Y - d.H),
				W: int(d.W),
				H: int(d.H),
			},
		})
	}
	return monitors, nil
}

// captureOutput shoots one output to a file: grim on Wayland compositors,
// screencapture on macOS (index is the 1-based display number).
func (c *Capturer) captureOutput(ctx context.Context, name string, index int, path string) error {
	var cmd *exec.Cmd
	if c.platform.DisplayServer == platform.DisplayServerMacOS {
		cmd = exec.CommandContext(ctx, "screencapture", "-x", "-D", strconv.Itoa(index), path)
	} else {
		cmd = exec.CommandContext(ctx, "grim", "-o", name, path)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w (stderr: %s)", cmd.Args[0], err, stderr.String())
	}
	return nil
}
