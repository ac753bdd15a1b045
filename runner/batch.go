package runner

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"minesweeper/config"
	"minesweeper/game"
	"minesweeper/solver"
)

// agentStream はエージェント用の乱数列を盤面用と分けるための定数です
const agentStream = 0x6d696e6573

// Summary はバッチ全体の集計です
type Summary struct {
	Games     int
	Won       int
	Lost      int
	Stalled   int
	WinRate   float64
	MeanMoves float64
}

// NewGame は cfg に従って i 番目のゲームのセッションを作ります。
// 同じ seed と i なら同じ盤面と同じランダム手になります
func NewGame(cfg *config.Config, seed uint64, i int, logger *zap.Logger) (*Session, error) {
	board, err := game.NewBoard(cfg.Board.Height, cfg.Board.Width, cfg.Board.Mines,
		rand.New(rand.NewPCG(seed, uint64(i))))
	if err != nil {
		return nil, err
	}
	agent := solver.New(cfg.Board.Height, cfg.Board.Width,
		solver.WithRand(rand.New(rand.NewPCG(seed^agentStream, uint64(i)))),
		solver.WithRandomAttempts(cfg.Agent.RandomAttempts),
		solver.WithLogger(logger))
	return NewSession(board, agent, logger)
}

// RunBatch は cfg.Batch.Games 回のゲームを最大 cfg.Batch.Workers 並列で実行します。
// 結果はゲーム順に並びます
func RunBatch(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]Result, Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Batch.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("Batch started",
		zap.Int("games", cfg.Batch.Games),
		zap.Int("workers", cfg.Batch.Workers),
		zap.Uint64("seed", seed))

	results := make([]Result, cfg.Batch.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Batch.Workers)

	for i := range cfg.Batch.Games {
		g.Go(func() error {
			s, err := NewGame(cfg, seed, i, logger)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			res, err := s.Play(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summarize(results)
	logger.Info("Batch finished",
		zap.Int("won", sum.Won),
		zap.Int("lost", sum.Lost),
		zap.Int("stalled", sum.Stalled),
		zap.Float64("win_rate", sum.WinRate))
	return results, sum, nil
}

// Summarize は結果を集計します
func Summarize(results []Result) Summary {
	sum := Summary{Games: len(results)}
	moves := 0
	for _, r := range results {
		moves += r.Moves
		switch r.Outcome {
		case OutcomeWon:
			sum.Won++
		case OutcomeLost:
			sum.Lost++
		case OutcomeStalled:
			sum.Stalled++
		}
	}
	if sum.Games > 0 {
		sum.WinRate = float64(sum.Won) / float64(sum.Games)
		sum.MeanMoves = float64(moves) / float64(sum.Games)
	}
	return sum
}
