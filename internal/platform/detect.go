// Package platform handles detection of the operating system and display server.
//
// Different platforms need different methods to:
// - Capture screenshots (grim on Wayland, screencapture on macOS)
// - Locate the active window (hyprctl on Hyprland, osascript on macOS)
// - Measure idle time (xprintidle on X11, ioreg on macOS)
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// DisplayServer represents the display server type.
type DisplayServer string

const (
	DisplayServerHyprland DisplayServer = "hyprland"
	DisplayServerSway     DisplayServer = "sway"
	DisplayServerWayland  DisplayServer = "wayland" // Generic Wayland (GNOME, KDE)
	DisplayServerX11      DisplayServer = "x11"
	DisplayServerMacOS    DisplayServer = "macos"
	DisplayServerUnknown  DisplayServer = "unknown"
)

// Platform holds information about the detected platform.
type Platform struct {
	// OS is the operating system: "linux", "darwin" (macOS), "windows"
	OS string

	// DisplayServer is the specific display server being used
	DisplayServer DisplayServer

	// Available tools - these are set based on what's installed
	HasHyprctl    bool // Hyprland control tool
	HasSwaymsg    bool // Sway control tool
	HasGrim       bool // Wayland screenshot tool
	HasXprintidle bool // X11/XWayland idle time
}

// String returns a human-readable description of the platform.
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.DisplayServer)
}

// Detect figures out what platform we're running on.
// It checks the OS, then probes for display server and available tools.
func Detect() (*Platform, error) {
	p := &Platform{
		OS: runtime.GOOS,
	}

	p.DisplayServer = detectDisplayServer()

	p.HasHyprctl = commandExists("hyprctl")
	p.HasSwaymsg = commandExists("swaymsg")
	p.HasGrim = commandExists("grim")
	p.HasXprintidle = commandExists("xprintidle")

	return p, nil
}

// detectDisplayServer figures out which display server is running.
func detectDisplayServer() DisplayServer {
	if runtime.GOOS == "darwin" {
		return DisplayServerMacOS
	}

	// Check for Hyprland first (most specific)
	// Hyprland sets HYPRLAND_INSTANCE_SIGNATURE environment variable
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return DisplayServerHyprland
	}

	// Check for Sway
	if os.Getenv("SWAYSOCK") != "" {
		return DisplayServerSway
	}

	// XDG_SESSION_TYPE is set by systemd/login managers
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	if sessionType == "wayland" {
		return DisplayServerWayland
	}

	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}

	if sessionType == "x11" || os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}

	return DisplayServerUnknown
}

// commandExists checks if a command is available in PATH.
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// CanCaptureScreen returns true if we have tools to enumerate monitors and
// capture per-monitor screenshots.
func (p *Platform) CanCaptureScreen() bool {
	switch p.DisplayServer {
	case DisplayServerHyprland:
		return p.HasHyprctl && p.HasGrim
	case DisplayServerSway:
		return p.HasSwaymsg && p.HasGrim
	case DisplayServerMacOS:
		return true // macOS always has screencapture
	default:
		return false
	}
}

// CanLocateWindow returns true if we can query the frontmost window's bounds.
func (p *Platform) CanLocateWindow() bool {
	switch p.DisplayServer {
	case DisplayServerHyprland:
		return p.HasHyprctl
	case DisplayServerSway:
		return p.HasSwaymsg
	case DisplayServerMacOS:
		return true // osascript ships with the OS
	default:
		return false
	}
}

// CanDetectIdle returns true if an idle-time source is available.
func (p *Platform) CanDetectIdle() bool {
	switch p.DisplayServer {
	case DisplayServerMacOS:
		return true // ioreg ships with the OS
	default:
		return p.HasXprintidle
	}
}

// CheckRequirements returns hints about missing tools.
func (p *Platform) CheckRequirements() []string {
	var missing []string

	switch p.DisplayServer {
	case DisplayServerHyprland, DisplayServerSway, DisplayServerWayland:
		if !p.HasGrim {
			missing = append(missing, "grim (install: sudo pacman -S grim)")
		}
		if !p.HasXprintidle {
			missing = append(missing, "xprintidle (install: sudo pacman -S xprintidle)")
		}
	case DisplayServerX11:
		if !p.HasXprintidle {
			missing = append(missing, "xprintidle (install: sudo pacman -S xprintidle)")
		}
	}

	return missing
}
