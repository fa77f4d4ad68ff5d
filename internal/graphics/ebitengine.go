package graphics

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"nesgo/internal/input"
)

// errShutdown terminates ebiten.RunGame cleanly when the user quits.
var errShutdown = errors.New("graphics: shutdown requested")

type binding struct {
	port   int
	button input.Button
}

// Ebitengine is the windowed backend. It implements ebiten.Game: Update
// polls the keyboard and runs one emulated frame, Draw blits the frame
// buffer.
type Ebitengine struct {
	runner Runner
	frame  *ebiten.Image
	pixels []byte
	keymap map[ebiten.Key]binding
}

// NewEbitengine creates the windowed backend.
func NewEbitengine(cfg Config) *Ebitengine {
	scale := cfg.Scale
	if scale < 1 {
		scale = 3
	}
	title := cfg.Title
	if title == "" {
		title = "nesgo"
	}

	ebiten.SetWindowSize(ScreenWidth*scale, ScreenHeight*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetVsyncEnabled(cfg.VSync)

	return &Ebitengine{
		frame:  ebiten.NewImage(ScreenWidth, ScreenHeight),
		pixels: make([]byte, ScreenWidth*ScreenHeight*4),
		keymap: buildKeymap(cfg.KeyBindings),
	}
}

// Run drives the runner under the ebiten game loop until the window is
// closed.
func (e *Ebitengine) Run(runner Runner) error {
	e.runner = runner
	if err := ebiten.RunGame(e); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	return nil
}

// Update implements ebiten.Game.
func (e *Ebitengine) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return errShutdown
	}
	for key, b := range e.keymap {
		e.runner.SetButton(b.port, b.button, ebiten.IsKeyPressed(key))
	}
	return e.runner.Update()
}

// Draw implements ebiten.Game.
func (e *Ebitengine) Draw(screen *ebiten.Image) {
	buffer := e.runner.FrameBuffer()
	for i, c := range buffer {
		e.pixels[i*4+0] = uint8(c >> 16)
		e.pixels[i*4+1] = uint8(c >> 8)
		e.pixels[i*4+2] = uint8(c)
		e.pixels[i*4+3] = 0xFF
	}
	e.frame.WritePixels(e.pixels)
	screen.DrawImage(e.frame, nil)
}

// Layout implements ebiten.Game.
func (e *Ebitengine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// defaultKeymap is the port 0 layout used when the config has no bindings.
var defaultKeymap = map[ebiten.Key]binding{
	ebiten.KeyZ:          {0, input.ButtonA},
	ebiten.KeyX:          {0, input.ButtonB},
	ebiten.KeyShiftRight: {0, input.ButtonSelect},
	ebiten.KeyEnter:      {0, input.ButtonStart},
	ebiten.KeyArrowUp:    {0, input.ButtonUp},
	ebiten.KeyArrowDown:  {0, input.ButtonDown},
	ebiten.KeyArrowLeft:  {0, input.ButtonLeft},
	ebiten.KeyArrowRight: {0, input.ButtonRight},
}

var keyNames = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,
	"enter": ebiten.KeyEnter, "space": ebiten.KeySpace,
	"shift": ebiten.KeyShiftRight, "tab": ebiten.KeyTab,
	"up": ebiten.KeyArrowUp, "down": ebiten.KeyArrowDown,
	"left": ebiten.KeyArrowLeft, "right": ebiten.KeyArrowRight,
}

var buttonNames = map[string]input.Button{
	"a":      input.ButtonA,
	"b":      input.ButtonB,
	"select": input.ButtonSelect,
	"start":  input.ButtonStart,
	"up":     input.ButtonUp,
	"down":   input.ButtonDown,
	"left":   input.ButtonLeft,
	"right":  input.ButtonRight,
}

// buildKeymap translates config bindings (button name to key name) into
// the polling table, falling back to the default layout.
func buildKeymap(bindings map[string]string) map[ebiten.Key]binding {
	if len(bindings) == 0 {
		return defaultKeymap
	}
	keymap := make(map[ebiten.Key]binding, len(bindings))
	for buttonName, keyName := range bindings {
		button, ok := buttonNames[buttonName]
		if !ok {
			continue
		}
		key, ok := keyNames[keyName]
		if !ok {
			continue
		}
		keymap[key] = binding{0, button}
	}
	return keymap
}
