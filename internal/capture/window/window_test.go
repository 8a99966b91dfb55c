package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invariante/zeit/internal/capture/screen"
)

var dualMonitors = []screen.Rect{
	{X: 0, Y: 0, W: 1920, H: 1080},
	{X: 1920, Y: 0, W: 2560, H: 1440},
}

func TestResolveTopLeftHit(t *testing.T) {
	win := screen.Rect{X: 2000, Y: 100, W: 800, H: 600}

	index, ok := resolve(win, dualMonitors)
	require.True(t, ok)
	assert.Equal(t, 2, index)
}

func TestResolveFirstMonitor(t *testing.T) {
	win := screen.Rect{X: 100, Y: 100, W: 640, H: 480}

	index, ok := resolve(win, dualMonitors)
	require.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestResolveStraddlingUsesTopLeft(t *testing.T) {
	// Top-left on monitor 1, most of the window on monitor 2.
	win := screen.Rect{X: 1800, Y: 100, W: 800, H: 600}

	index, ok := resolve(win, dualMonitors)
	require.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestResolveCenterFallback(t *testing.T) {
	// Top-left off-screen, center on monitor 1.
	monitors := []screen.Rect{{X: 0, Y: 0, W: 1000, H: 1000}}
	win := screen.Rect{X: -500, Y: -500, W: 2200, H: 2200}

	index, ok := resolve(win, monitors)
	require.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestResolveOffscreenTopLeftIgnoresOtherCorners(t *testing.T) {
	// Top-left above both monitors: only the center decides, even though
	// the bottom-right corner lands on monitor 2.
	monitors := []screen.Rect{
		{X: 0, Y: 0, W: 1000, H: 1000},
		{X: 1000, Y: 0, W: 1000, H: 1000},
	}
	win := screen.Rect{X: -100, Y: -50, W: 1200, H: 200}

	index, ok := resolve(win, monitors)
	require.True(t, ok)
	assert.Equal(t, 1, index)
}

func TestResolveNowhere(t *testing.T) {
	win := screen.Rect{X: 10000, Y: 10000, W: 100, H: 100}

	_, ok := resolve(win, dualMonitors)
	assert.False(t, ok)
}

func TestActiveScreenSingleMonitor(t *testing.T) {
	// One monitor never queries the compositor.
	l := &Locator{}

	index, ok := l.ActiveScreen(t.Context(), []screen.Rect{{W: 1920, H: 1080}})
	require.True(t, ok)
	assert.Equal(t, 1, index)

	_, ok = l.ActiveScreen(t.Context(), nil)
	assert.False(t, ok)
}

func TestParseHyprlandWindow(t *testing.T) {
	rect, ok := parseHyprlandWindow([]byte(`{"at": [1920, 0], "size": [2560, 1400]}`))
	require.True(t, ok)
	assert.Equal(t, screen.Rect{X: 1920, Y: 0, W: 2560, H: 1400}, rect)
}

func TestParseHyprlandWindowEmpty(t *testing.T) {
	// hyprctl reports {} when nothing is focused.
	_, ok := parseHyprlandWindow([]byte(`{}`))
	assert.False(t, ok)

	_, ok = parseHyprlandWindow([]byte(`garbage`))
	assert.False(t, ok)
}

func TestParseSwayTree(t *testing.T) {
	tree := []byte(`{
		"focused": false,
		"rect": {"x": 0, "y": 0, "width": 4480, "height": 1440},
		"nodes": [
			{
				"focused": false,
				"rect": {"x": 0, "y": 0, "width": 1920, "height": 1080},
				"nodes": []
			},
			{
				"focused": false,
				"rect": {"x": 1920, "y": 0, "width": 2560, "height": 1440},
				"nodes": [
					{
						"focused": true,
						"rect": {"x": 1930, "y": 10, "width": 2540, "height": 1420},
						"nodes": []
					}
				]
			}
		]
	}`)

	rect, ok := parseSwayTree(tree)
	require.True(t, ok)
	assert.Equal(t, screen.Rect{X: 1930, Y: 10, W: 2540, H: 1420}, rect)
}

func TestParseSwayTreeNoFocus(t *testing.T) {
	_, ok := parseSwayTree([]byte(`{"focused": false, "nodes": []}`))
	assert.False(t, ok)
}

func TestParseMacOSWindow(t *testing.T) {
	rect, ok := parseMacOSWindow([]byte("100, 200, 800, 600\n"))
	require.True(t, ok)
	assert.Equal(t, screen.Rect{X: 100, Y: 200, W: 800, H: 600}, rect)
}

func TestParseMacOSWindowMalformed(t *testing.T) {
	_, ok := parseMacOSWindow([]byte("100, 200, 800"))
	assert.False(t, ok)

	_, ok = parseMacOSWindow([]byte("100, 200, eight hundred, 600"))
	assert.False(t, ok)
}
