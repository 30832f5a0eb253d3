package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/poller"
	"github.com/llehouerou/reel/internal/timerpool"
)

const appName = "reel"

// Engine names accepted by the engine key.
const (
	EngineBeep = "beep"
	EngineMPV  = "mpv"
)

type Config struct {
	PollInterval  time.Duration `koanf:"poll_interval" validate:"gte=0"`  // cursor refresh while playing
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gte=0"` // idle timer reclamation
	DefaultColor  string        `koanf:"default_color" validate:"omitempty,hexcolor"`
	Engine        string        `koanf:"engine" validate:"omitempty,oneof=beep mpv"`
	Notifications bool          `koanf:"notifications"` // desktop notifications in headless mode

	MPV MPVConfig `koanf:"mpv"`
	Log LogConfig `koanf:"log"`
}

// MPVConfig configures the mpv engine.
type MPVConfig struct {
	Binary    string `koanf:"binary"`     // default: "mpv" from PATH
	SocketDir string `koanf:"socket_dir"` // default: XDG runtime dir
}

// LogConfig configures the log file.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
	Write  *bool  `koanf:"write"` // default: true
}

// Default returns the configuration used when no file sets anything.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config files in priority order. A non-empty path replaces
// the search and must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	paths := getConfigPaths()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		paths = []string{path}
	}

	// last wins
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", p, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: invalid %s: %q fails %s", f.Namespace(), fmt.Sprint(f.Value()), f.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = poller.DefaultInterval
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = timerpool.DefaultSweepInterval
	}
	if c.DefaultColor == "" {
		c.DefaultColor = media.DefaultColor
	}
	if c.Engine == "" {
		c.Engine = EngineBeep
	}
	if c.MPV.Binary == "" {
		c.MPV.Binary = "mpv"
	} else {
		c.MPV.Binary = expandPath(c.MPV.Binary)
	}
	if c.MPV.SocketDir == "" {
		c.MPV.SocketDir = filepath.Join(xdg.RuntimeDir, appName)
	} else {
		c.MPV.SocketDir = expandPath(c.MPV.SocketDir)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// LogWrite reports whether logs go to a file.
func (c *Config) LogWrite() bool {
	return c.Log.Write == nil || *c.Log.Write
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/reel/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
