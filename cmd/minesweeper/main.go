package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"minesweeper/config"
)

var (
	// 全コマンド共通のフラグ
	verbose     bool
	configPath  string
	writeConfig string

	// 各コマンドの実行前に用意される
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Knowledge-based minesweeper agent",
	Long: `minesweeper plays Minesweeper with a logic agent.

The agent keeps sentences of the form "exactly N of these cells are mines",
refines them by subset resolution after every revealed cell and only
guesses when nothing is provably safe.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if writeConfig != "" {
			if err := cfg.Save(writeConfig); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", writeConfig)
		}

		logger, err = cfg.Logging.NewLogger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	flagHeight int
	flagWidth  int
	flagMines  int
	flagSeed   uint64
)

// applyFlagOverrides は明示的に指定されたフラグだけで設定を上書きします
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("height") {
		cfg.Board.Height = flagHeight
	}
	if flags.Changed("width") {
		cfg.Board.Width = flagWidth
	}
	if flags.Changed("mines") {
		cfg.Board.Mines = flagMines
	}
	if flags.Changed("seed") {
		cfg.Batch.Seed = flagSeed
	}
	if flags.Changed("games") {
		cfg.Batch.Games = flagGames
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = flagWorkers
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&configPath, "config", "c", "minesweeper.yaml", "Path to config file")
	pf.StringVar(&writeConfig, "write-config", "", "Save the effective config (file, env and flags merged) to this path")
	pf.IntVar(&flagHeight, "height", 0, "Board height (overrides config)")
	pf.IntVar(&flagWidth, "width", 0, "Board width (overrides config)")
	pf.IntVar(&flagMines, "mines", 0, "Number of mines (overrides config)")
	pf.Uint64Var(&flagSeed, "seed", 0, "Random seed, 0 picks one (overrides config)")

	rootCmd.AddCommand(playCmd, benchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
