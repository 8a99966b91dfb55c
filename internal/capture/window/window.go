// Package window locates the monitor holding the currently focused window.
//
// Window location is advisory only. Every failure path returns a
// not-found result rather than an error so a missing compositor query can
// never abort a tick.
package window

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/invariante/zeit/internal/capture/screen"
	"github.com/invariante/zeit/internal/platform"
)

// Locator resolves the focused window to a 1-based monitor index.
type Locator struct {
	platform *platform.Platform
	log      zerolog.Logger
}

// New creates a new window Locator.
func New(plat *platform.Platform, logger zerolog.Logger) *Locator {
	return &Locator{
		platform: plat,
		log:      logger.With().Str("component", "window").Logger(),
	}
}

// ActiveScreen reports which monitor holds the focused window. With a
// single monitor it answers immediately without querying the compositor.
// The boolean is false whenever the answer is unknown.
func (l *Locator) ActiveScreen(ctx context.Context, monitors []screen.Rect) (int, bool) {
	if len(monitors) == 0 {
		return 0, false
	}
	if len(monitors) == 1 {
		return 1, true
	}

	win, ok := l.focusedWindow(ctx)
	if !ok {
		return 0, false
	}
	return resolve(win, monitors)
}

// focusedWindow returns the bounding rect of the focused window.
func (l *Locator) focusedWindow(ctx context.Context) (screen.Rect, bool) {
	switch l.platform.DisplayServer {
	case platform.DisplayServerHyprland:
		return l.focusedHyprland(ctx)
	case platform.DisplayServerSway:
		return l.focusedSway(ctx)
	case platform.DisplayServerMacOS:
		return l.focusedMacOS(ctx)
	default:
		l.log.Debug().Str("display_server", string(l.platform.DisplayServer)).
			Msg("window location not supported")
		return screen.Rect{}, false
	}
}

// hyprlandWindow is the relevant subset of hyprctl activewindow -j output.
type hyprlandWindow struct {
	At   []int `json:"at"`
	Size []int `json:"size"`
}

func (l *Locator) focusedHyprland(ctx context.Context) (screen.Rect, bool) {
	cmd := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j")
	output, err := cmd.Output()
	if err != nil {
		l.log.Debug().Err(err).Msg("hyprctl activewindow failed")
		return screen.Rect{}, false
	}
	return parseHyprlandWindow(output)
}

func parseHyprlandWindow(output []byte) (screen.Rect, bool) {
	var win hyprlandWindow
	if err := json.Unmarshal(output, &win); err != nil {
		return screen.Rect{}, false
	}
	// No focused window reports an empty object.
	if len(win.At) < 2 || len(win.Size) < 2 {
		return screen.Rect{}, false
	}
	return screen.Rect{X: win.At[0], Y: win.At[1], W: win.Size[0], H: win.Size[1]}, true
}

// swayNode is the subset of the sway tree needed to find the focused window.
type swayNode struct {
	Focused bool `json:"focused"`
	Rect    struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"rect"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

func (l *Locator) focusedSway(ctx context.Context) (screen.Rect, bool) {
	cmd := exec.CommandContext(ctx, "swaymsg", "-t", "get_tree")
	output, err := cmd.Output()
	if err != nil {
		l.log.Debug().Err(err).Msg("swaymsg get_tree failed")
		return screen.Rect{}, false
	}
	return parseSwayTree(output)
}

func parseSwayTree(output []byte) (screen.Rect, bool) {
	var root swayNode
	if err := json.Unmarshal(output, &root); err != nil {
		return screen.Rect{}, false
	}
	node, ok := findFocused(root)
	if !ok {
		return screen.Rect{}, false
	}
	return screen.Rect{X: node.Rect.X, Y: node.Rect.Y, W: node.Rect.Width, H: node.Rect.Height}, true
}

func findFocused(node swayNode) (swayNode, bool) {
	if node.Focused {
		return node, true
	}
	for _, child := range node.Nodes {
		if found, ok := findFocused(child); ok {
			return found, true
		}
	}
	for _, child := range node.FloatingNodes {
		if found, ok := findFocused(child); ok {
			return found, true
		}
	}
	return swayNode{}, false
}

// frontWindowScript asks System Events for the frontmost window's bounds.
// Output is "x, y, w, h" in global top-left-origin coordinates, the same
// space the screen package reports monitor bounds in.
const frontWindowScript = `tell application "System Events" to get {position, size} of front window of (first process whose frontmost is true)`

func (l *Locator) focusedMacOS(ctx context.Context) (screen.Rect, bool) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", frontWindowScript)
	output, err := cmd.Output()
	if err != nil {
		l.log.Debug().Err(err).Msg("osascript front window failed")
		return screen.Rect{}, false
	}
	return parseMacOSWindow(output)
}

func parseMacOSWindow(output []byte) (screen.Rect, bool) {
	fields := strings.Split(strings.TrimSpace(string(output)), ",")
	if len(fields) != 4 {
		return screen.Rect{}, false
	}
	vals := make([]int, 4)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return screen.Rect{}, false
		}
		vals[i] = n
	}
	return screen.Rect{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, true
}

// resolve maps a window rect to the monitor containing its top-left
// corner, falling back to the window center when the corner sits in a
// gap or off-screen.
func resolve(win screen.Rect, monitors []screen.Rect) (int, bool) {
	for i, mon := range monitors {
		if mon.Contains(win.X, win.Y) {
			return i + 1, true
		}
	}

	centerX := win.X + win.W/2
	centerY := win.Y + win.H/2
	for i, mon := range monitors {
		if mon.Contains(centerX, centerY) {
			return i + 1, true
		}
	}
	return 0, false
}
