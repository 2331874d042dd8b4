// Package config provides a TOML-backed configuration for the simulator's
// memory geometry and shell preferences, with a documented default for
// every field so a missing or partial file never changes core behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the simulator's overridable constants. The zero value is
// not meaningful; always start from DefaultConfig.
type Config struct {
	Memory struct {
		BaseAddress uint32 `toml:"base_address"`
		WordCount   int    `toml:"word_count"`
	} `toml:"memory"`

	Execution struct {
		TextBase uint32 `toml:"text_base"`
	} `toml:"execution"`

	Debugger struct {
		HistorySize int `toml:"history_size"`
	} `toml:"debugger"`

	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec, binary
	} `toml:"display"`
}

// DefaultConfig returns the spec's documented constants: base address
// 0x10010000, 128 words, text base 0x00400000.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Memory.BaseAddress = 0x10010000
	cfg.Memory.WordCount = 128

	cfg.Execution.TextBase = 0x00400000

	cfg.Debugger.HistorySize = 500

	cfg.Display.NumberFormat = "hex"

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its containing directory if needed.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "mips-sim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "mips-sim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path. A missing file is not
// an error: it yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the given path, creating its directory if
// needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
