// Package app wires the console, backends and configuration into a
// runnable emulator.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the emulator configuration, persisted as JSON.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
}

// WindowConfig shapes the desktop window.
type WindowConfig struct {
	Title string `json:"title"`
	Scale int    `json:"scale"` // NES resolution multiplier
}

// VideoConfig shapes frame presentation.
type VideoConfig struct {
	VSync bool `json:"vsync"`
}

// AudioConfig shapes sound output.
type AudioConfig struct {
	Enabled    bool   `json:"enabled"`
	SampleRate int    `json:"sample_rate"`
	CaptureWAV string `json:"capture_wav"` // optional WAV capture path
}

// InputConfig maps NES buttons to keyboard keys for player 1.
type InputConfig struct {
	Player1Keys map[string]string `json:"player1_keys"`
}

// EmulationConfig shapes core behavior.
type EmulationConfig struct {
	TraceLog string `json:"trace_log"` // optional golden-log output path
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title: "nesgo",
			Scale: 3,
		},
		Video: VideoConfig{
			VSync: true,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
		Input: InputConfig{
			Player1Keys: map[string]string{
				"a":      "z",
				"b":      "x",
				"select": "shift",
				"start":  "enter",
				"up":     "up",
				"down":   "down",
				"left":   "left",
				"right":  "right",
			},
		},
	}
}

// LoadConfig reads a config file, filling unset fields from the defaults.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.Window.Scale < 1 {
		cfg.Window.Scale = 1
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 44100
	}
	return cfg, nil
}

// SaveConfig writes the configuration as indented JSON, creating parent
// directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
