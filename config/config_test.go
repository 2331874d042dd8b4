package config

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, uint32(0x10010000), cfg.Memory.BaseAddress)
	assert.Equal(t, 128, cfg.Memory.WordCount)
	assert.Equal(t, uint32(0x00400000), cfg.Execution.TextBase)
	assert.Equal(t, 500, cfg.Debugger.HistorySize)
	assert.Equal(t, "hex", cfg.Display.NumberFormat)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	require.NotEmpty(t, path)
	assert.Equal(t, "config.toml", filepath.Base(path))

	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		dir := filepath.Dir(path)
		if path != "config.toml" {
			assert.Equal(t, "mips-sim", filepath.Base(dir))
		}
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Memory.WordCount = 256
	cfg.Display.NumberFormat = "binary"

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 256, loaded.Memory.WordCount)
	assert.Equal(t, "binary", loaded.Display.NumberFormat)
}
