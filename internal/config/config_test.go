package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	result, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if result.Mode != ModeTerminal {
		t.Errorf("expected default mode terminal, got %q", result.Mode)
	}
	if result.Display.Backing != BackingMemory {
		t.Errorf("expected memory backing, got %q", result.Display.Backing)
	}
	if result.SSH.Port != 2323 {
		t.Errorf("expected default ssh port 2323, got %d", result.SSH.Port)
	}
	if result.Telnet.Port != 2324 {
		t.Errorf("expected default telnet port 2324, got %d", result.Telnet.Port)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := map[string]interface{}{
		"mode": "text",
		"feed": map[string]interface{}{"baud": 2400},
		"snapshot": map[string]interface{}{
			"enabled": true,
			"dir":     "",
		},
	}
	data, _ := json.Marshal(cfg)
	os.WriteFile(filepath.Join(tmpDir, "config.json"), data, 0644)

	result, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != ModeText || result.ModeFlag() != 0 {
		t.Errorf("expected text mode, got %q (flag %d)", result.Mode, result.ModeFlag())
	}
	if result.Feed.Baud != 2400 {
		t.Errorf("expected baud 2400, got %d", result.Feed.Baud)
	}
	if result.Feed.DebounceMs != 100 {
		t.Errorf("expected default debounce 100, got %d", result.Feed.DebounceMs)
	}
	if !result.Snapshot.Enabled || result.Snapshot.Dir != "snapshots" {
		t.Errorf("unexpected snapshot config: %+v", result.Snapshot)
	}
	if !result.Render.Color {
		t.Error("expected color rendering to stay enabled")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("not json"), 0644)

	result, err := Load(tmpDir)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if result.Mode != ModeTerminal {
		t.Errorf("expected defaults on error, got mode %q", result.Mode)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(`{"display":{"backing":"vram"}}`), 0644)

	_, err := Load(tmpDir)
	if !errors.Is(err, ErrUnknownBacking) {
		t.Errorf("expected ErrUnknownBacking, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad mode", func(c *Config) { c.Mode = "vt220" }, true},
		{"mmap without path", func(c *Config) { c.Display.Backing = BackingMmap }, true},
		{"mmap with path", func(c *Config) { c.Display.Backing = BackingMmap; c.Display.Path = "/tmp/vram" }, false},
		{"negative offset", func(c *Config) {
			c.Display.Backing = BackingMmap
			c.Display.Path = "/tmp/vram"
			c.Display.Offset = -4096
		}, true},
		{"negative baud", func(c *Config) { c.Feed.Baud = -1 }, true},
		{"ssh port out of range", func(c *Config) { c.SSH.Enabled = true; c.SSH.Port = 70000 }, true},
		{"disabled ssh ignores port", func(c *Config) { c.SSH.Port = 0 }, false},
		{"telnet port out of range", func(c *Config) { c.Telnet.Enabled = true; c.Telnet.Port = -1 }, true},
		{"negative keep", func(c *Config) { c.Snapshot.Keep = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
