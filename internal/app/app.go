package app

import (
	"errors"
	"fmt"
	"os"

	"nesgo/internal/audio"
	"nesgo/internal/bus"
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/graphics"
	"nesgo/internal/input"
)

// Options come from the command line and override the config file.
type Options struct {
	ROMPath    string
	ConfigPath string

	Headless bool
	Frames   int    // headless: frames to run
	DumpPath string // headless: PNG of the final frame

	TracePath string // golden-log output, overrides config
}

// App owns a console and the host-side plumbing around it: backend,
// speaker, capture and trace sinks. It implements graphics.Runner.
type App struct {
	config  Config
	console *bus.Console
	backend graphics.Backend

	speaker   *audio.Speaker
	wavWriter *audio.WAVWriter
	traceFile *os.File
}

// New loads the ROM and configuration and assembles a ready-to-run app.
func New(opts Options) (*App, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cart, err := cartridge.LoadFromFile(opts.ROMPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", opts.ROMPath, err)
	}

	a := &App{
		config:  cfg,
		console: bus.NewConsole(cart),
	}

	if opts.Headless {
		a.backend = graphics.NewHeadless(graphics.Config{
			Frames:   opts.Frames,
			DumpPath: opts.DumpPath,
		})
	} else {
		a.backend = graphics.NewEbitengine(graphics.Config{
			Title:       cfg.Window.Title,
			Scale:       cfg.Window.Scale,
			VSync:       cfg.Video.VSync,
			KeyBindings: cfg.Input.Player1Keys,
		})

		if cfg.Audio.Enabled {
			speaker, err := audio.NewSpeaker(cfg.Audio.SampleRate)
			if err != nil {
				return nil, fmt.Errorf("audio: %w", err)
			}
			a.speaker = speaker
			a.console.APU().SetSampleRate(cfg.Audio.SampleRate)
		}
	}

	if cfg.Audio.CaptureWAV != "" {
		a.wavWriter = audio.NewWAVWriter(cfg.Audio.CaptureWAV, cfg.Audio.SampleRate)
	}

	tracePath := opts.TracePath
	if tracePath == "" {
		tracePath = cfg.Emulation.TraceLog
	}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		a.traceFile = f
		a.console.SetTraceWriter(f)
	}

	return a, nil
}

// Run drives the backend loop until shutdown, then releases host
// resources. A jammed CPU ends the run without being treated as a crash.
func (a *App) Run() error {
	runErr := a.backend.Run(a)
	if errors.Is(runErr, cpu.ErrHalted) {
		runErr = nil
	}

	if a.speaker != nil {
		if err := a.speaker.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if a.wavWriter != nil {
		if err := a.wavWriter.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if a.traceFile != nil {
		if err := a.traceFile.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// Update implements graphics.Runner: one emulated frame plus audio
// routing.
func (a *App) Update() error {
	if err := a.console.RunFrame(); err != nil {
		return err
	}

	samples := a.console.Samples()
	if a.speaker != nil {
		a.speaker.Push(samples)
	}
	if a.wavWriter != nil {
		a.wavWriter.Append(samples)
	}
	return nil
}

// FrameBuffer implements graphics.Runner.
func (a *App) FrameBuffer() *[graphics.ScreenWidth * graphics.ScreenHeight]uint32 {
	return a.console.FrameBuffer()
}

// SetButton implements graphics.Runner.
func (a *App) SetButton(port int, button input.Button, pressed bool) {
	a.console.Controller(port).SetButton(button, pressed)
}

// Console exposes the underlying console, mainly for tests.
func (a *App) Console() *bus.Console {
	return a.console
}
