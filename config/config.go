// Package config は盤面・エージェント・一括対戦・ログのYAML設定を読み込みます
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config はマインスイーパーの全設定を保持します
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Agent   AgentConfig   `yaml:"agent"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// BoardConfig は盤面生成の設定です
type BoardConfig struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
	Mines  int `yaml:"mines"`
}

// AgentConfig は推論エージェントの設定です
type AgentConfig struct {
	// RandomAttempts はランダム手の試行回数の上限です。
	// 0 のときは試行せずに未知のマスを列挙します
	RandomAttempts int `yaml:"random_attempts"`
}

// BatchConfig は一括対戦の設定です
type BatchConfig struct {
	Games   int    `yaml:"games"`
	Workers int    `yaml:"workers"`
	Seed    uint64 `yaml:"seed"` // 0 なら実行ごとにランダム
}

// LoggingConfig はログの設定です
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig は既定の設定を返します
func DefaultConfig() *Config {
	return &Config{
		Board: BoardConfig{
			Height: 8,
			Width:  8,
			Mines:  8,
		},
		Agent: AgentConfig{
			RandomAttempts: 0,
		},
		Batch: BatchConfig{
			Games:   100,
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load は path から設定を読み込みます。ファイルが無ければ既定値を返します
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save は設定をYAMLとして path に書き出します
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"MINESWEEPER_HEIGHT", &c.Board.Height},
		{"MINESWEEPER_WIDTH", &c.Board.Width},
		{"MINESWEEPER_MINES", &c.Board.Mines},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("MINESWEEPER_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MINESWEEPER_SEED: %w", err)
		}
		c.Batch.Seed = seed
	}
	if v := os.Getenv("MINESWEEPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate は設定の誤りをまとめて返します
func (c *Config) Validate() error {
	var errs []error
	if c.Board.Height <= 0 || c.Board.Width <= 0 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %dx%d", c.Board.Height, c.Board.Width))
	} else if c.Board.Mines < 0 || c.Board.Mines >= c.Board.Height*c.Board.Width {
		errs = append(errs, fmt.Errorf("mines must be in [0, %d), got %d", c.Board.Height*c.Board.Width, c.Board.Mines))
	}
	if c.Agent.RandomAttempts < 0 {
		errs = append(errs, fmt.Errorf("agent.random_attempts must not be negative"))
	}
	if c.Batch.Games < 0 {
		errs = append(errs, fmt.Errorf("batch.games must not be negative"))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch.workers must be at least 1"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
