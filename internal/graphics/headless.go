package graphics

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Headless runs a fixed number of frames with no window, optionally
// dumping the final frame buffer as a PNG. Used for automated runs.
type Headless struct {
	frames   int
	dumpPath string
}

// NewHeadless creates the headless backend.
func NewHeadless(cfg Config) *Headless {
	frames := cfg.Frames
	if frames <= 0 {
		frames = 60
	}
	return &Headless{
		frames:   frames,
		dumpPath: cfg.DumpPath,
	}
}

// Run executes the configured number of frames.
func (h *Headless) Run(runner Runner) error {
	for i := 0; i < h.frames; i++ {
		if err := runner.Update(); err != nil {
			return err
		}
	}
	if h.dumpPath != "" {
		return dumpFrame(h.dumpPath, runner.FrameBuffer())
	}
	return nil
}

func dumpFrame(path string, buffer *[ScreenWidth * ScreenHeight]uint32) (rerr error) {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			c := buffer[y*ScreenWidth+x]
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c >> 16),
				G: uint8(c >> 8),
				B: uint8(c),
				A: 0xFF,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()
	return png.Encode(f, img)
}

var _ Backend = (*Headless)(nil)
var _ Backend = (*Ebitengine)(nil)
