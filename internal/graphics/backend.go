// Package graphics presents emulator frames through pluggable backends.
package graphics

import "nesgo/internal/input"

// NES output resolution.
const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// Runner is what a backend drives: one emulated frame per Update, the
// resulting frame buffer, and button state changes from the host.
type Runner interface {
	Update() error
	FrameBuffer() *[ScreenWidth * ScreenHeight]uint32
	SetButton(port int, button input.Button, pressed bool)
}

// Backend owns the presentation loop. Run blocks until the runner fails
// or the host closes the surface.
type Backend interface {
	Run(runner Runner) error
}

// Config selects and shapes the backend.
type Config struct {
	Title       string
	Scale       int
	VSync       bool
	KeyBindings map[string]string

	// Headless settings
	Frames   int    // frames to run before exiting
	DumpPath string // optional PNG of the final frame
}
