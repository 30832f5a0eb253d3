package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/bin/mpv",
			expected: filepath.Join(home, "bin", "mpv"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/bin/mpv",
			expected: "/usr/bin/mpv",
		},
		{
			name:     "relative path unchanged",
			input:    "sockets",
			expected: "sockets",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	expectedFirst := filepath.Join(xdg.ConfigHome, "reel", "config.toml")
	if paths[0] != expectedFirst {
		t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
	}
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("SweepInterval = %v, want 30s", cfg.SweepInterval)
	}
	if cfg.DefaultColor != "#00BFFF" {
		t.Errorf("DefaultColor = %q, want #00BFFF", cfg.DefaultColor)
	}
	if cfg.Engine != EngineBeep {
		t.Errorf("Engine = %q, want %q", cfg.Engine, EngineBeep)
	}
	if cfg.MPV.Binary != "mpv" {
		t.Errorf("MPV.Binary = %q, want mpv", cfg.MPV.Binary)
	}
	if !cfg.LogWrite() {
		t.Error("LogWrite() = false, want true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, `
poll_interval = "100ms"
sweep_interval = "1m"
default_color = "#FF8800"
engine = "mpv"
notifications = true

[mpv]
binary = "/opt/mpv/bin/mpv"
socket_dir = "/tmp/reel-test"

[log]
level = "debug"
format = "json"
write = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PollInterval != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want 100ms", cfg.PollInterval)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v, want 1m", cfg.SweepInterval)
	}
	if cfg.DefaultColor != "#FF8800" {
		t.Errorf("DefaultColor = %q", cfg.DefaultColor)
	}
	if cfg.Engine != EngineMPV {
		t.Errorf("Engine = %q, want mpv", cfg.Engine)
	}
	if !cfg.Notifications {
		t.Error("Notifications = false, want true")
	}
	if cfg.MPV.Binary != "/opt/mpv/bin/mpv" {
		t.Errorf("MPV.Binary = %q", cfg.MPV.Binary)
	}
	if cfg.MPV.SocketDir != "/tmp/reel-test" {
		t.Errorf("MPV.SocketDir = %q", cfg.MPV.SocketDir)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.LogWrite() {
		t.Error("LogWrite() = true, want false")
	}
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, `engine = "mpv"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want default", cfg.PollInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load() of missing file succeeded")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "unknown engine", body: `engine = "vlc"`, field: "Engine"},
		{name: "bad colour", body: `default_color = "blue"`, field: "DefaultColor"},
		{name: "negative poll", body: `poll_interval = "-1s"`, field: "PollInterval"},
		{name: "bad log level", body: "[log]\nlevel = \"loud\"", field: "Level"},
		{name: "bad log format", body: "[log]\nformat = \"xml\"", field: "Format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %s", err, tt.field)
			}
		})
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, `engine = `))
	if err == nil {
		t.Fatal("Load() succeeded on malformed TOML")
	}
}
