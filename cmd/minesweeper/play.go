package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"minesweeper/runner"
	"minesweeper/viewmodel"
)

var playJSON bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game and print every move",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playJSON, "json", false, "Print the final game state as JSON")
}

func runPlay(cmd *cobra.Command, args []string) error {
	seed := cfg.Batch.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s, err := runner.NewGame(cfg, seed, 0, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Game %s (%dx%d, %d mines, seed %d)\n",
		s.ID, cfg.Board.Height, cfg.Board.Width, cfg.Board.Mines, seed)

	for s.Outcome() == runner.OutcomePlaying {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		move, err := s.Step()
		if err != nil {
			return err
		}
		if move == nil {
			break
		}
		fmt.Fprintf(out, "%-6s %v\n", move.Strategy, move.Cell)
	}

	res := s.Result()
	if playJSON {
		fmt.Fprintln(out, viewmodel.NewGameView(s))
		return nil
	}

	fmt.Fprint(out, s.Board.String())
	fmt.Fprintf(out, "Outcome: %s after %d moves (%d safe, %d random), %d flagged\n",
		res.Outcome, res.Moves, res.SafeMoves, res.RandomMoves, res.Flagged)
	if res.HitMine != nil {
		fmt.Fprintf(out, "Hit mine at %v\n", *res.HitMine)
	}
	return nil
}
