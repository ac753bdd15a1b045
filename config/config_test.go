package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.Board.Height)
	assert.Equal(t, 8, cfg.Board.Width)
	assert.Equal(t, 8, cfg.Board.Mines)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minesweeper.yaml")
	data := []byte(`board:
  height: 16
  width: 30
  mines: 99
agent:
  random_attempts: 200
batch:
  games: 10
  workers: 2
  seed: 42
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, BoardConfig{Height: 16, Width: 30, Mines: 99}, cfg.Board)
	assert.Equal(t, 200, cfg.Agent.RandomAttempts)
	assert.Equal(t, BatchConfig{Games: 10, Workers: 2, Seed: 42}, cfg.Batch)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep defaults")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: [1, 2"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Board.Mines = 12

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("board and seed", func(t *testing.T) {
		t.Setenv("MINESWEEPER_HEIGHT", "9")
		t.Setenv("MINESWEEPER_WIDTH", "9")
		t.Setenv("MINESWEEPER_MINES", "10")
		t.Setenv("MINESWEEPER_SEED", "7")
		t.Setenv("MINESWEEPER_LOG_LEVEL", "warn")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, BoardConfig{Height: 9, Width: 9, Mines: 10}, cfg.Board)
		assert.Equal(t, uint64(7), cfg.Batch.Seed)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Setenv("MINESWEEPER_MINES", "lots")
		_, err := Load("")
		assert.ErrorContains(t, err, "MINESWEEPER_MINES")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"too many mines", func(c *Config) { c.Board.Mines = 64 }, "mines must be in"},
		{"zero size", func(c *Config) { c.Board.Width = 0 }, "board size must be positive"},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }, "workers"},
		{"negative attempts", func(c *Config) { c.Agent.RandomAttempts = -1 }, "random_attempts"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
