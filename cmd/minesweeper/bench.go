package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"minesweeper/runner"
)

var (
	flagGames   int
	flagWorkers int
	benchCSV    string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play many games in parallel and report the win rate",
	Long: `Plays batch.games games on fresh boards, each with its own agent.
With a fixed --seed the results are reproducible.

Example:
  minesweeper bench --games 1000 --workers 8 --csv results.csv`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.IntVar(&flagGames, "games", 0, "Number of games (overrides config)")
	f.IntVar(&flagWorkers, "workers", 0, "Games played in parallel (overrides config)")
	f.StringVar(&benchCSV, "csv", "", "Write per-game results to this CSV file")
}

func runBench(cmd *cobra.Command, args []string) error {
	results, sum, err := runner.RunBatch(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	if benchCSV != "" {
		file, err := os.Create(benchCSV)
		if err != nil {
			return fmt.Errorf("failed to create csv: %w", err)
		}
		defer file.Close()
		if err := runner.WriteCSV(file, results); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Games:   %d (%dx%d, %d mines)\n", sum.Games, cfg.Board.Height, cfg.Board.Width, cfg.Board.Mines)
	fmt.Fprintf(out, "Won:     %d (%.1f%%)\n", sum.Won, sum.WinRate*100)
	fmt.Fprintf(out, "Lost:    %d\n", sum.Lost)
	fmt.Fprintf(out, "Stalled: %d\n", sum.Stalled)
	fmt.Fprintf(out, "Moves:   %.1f per game\n", sum.MeanMoves)
	return nil
}
