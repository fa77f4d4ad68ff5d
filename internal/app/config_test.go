package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.Window.Scale != want.Window.Scale || cfg.Audio.SampleRate != want.Audio.SampleRate {
		t.Errorf("missing file config = %+v, want defaults", cfg)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Window.Scale = 2
	cfg.Audio.Enabled = false
	cfg.Emulation.TraceLog = "trace.log"
	cfg.Input.Player1Keys["a"] = "space"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Window.Scale != 2 || got.Audio.Enabled || got.Emulation.TraceLog != "trace.log" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Input.Player1Keys["a"] != "space" {
		t.Errorf("key binding lost: %v", got.Input.Player1Keys)
	}
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("bad JSON did not error")
	}
}

func TestLoadConfigClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"window":{"scale":0},"audio":{"sample_rate":-1}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Window.Scale != 1 {
		t.Errorf("scale = %d, want clamp to 1", cfg.Window.Scale)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want fallback 44100", cfg.Audio.SampleRate)
	}
}
