package runner

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"minesweeper/config"
	"minesweeper/game"
	"minesweeper/solver"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessionWinsByLogic(t *testing.T) {
	board, err := game.NewBoardWithMines(3, 3, []game.Cell{{Row: 2, Col: 2}})
	require.NoError(t, err)
	agent := solver.New(3, 3)
	require.NoError(t, agent.MarkSafe(game.Cell{Row: 0, Col: 0}))

	s, err := NewSession(board, agent, zap.NewNop())
	require.NoError(t, err)

	res, err := s.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, res.Outcome)
	assert.Zero(t, res.RandomMoves)
	assert.Equal(t, res.Moves, res.SafeMoves)
	assert.Nil(t, res.HitMine)
	assert.Equal(t, 1, res.Flagged)

	move, err := s.Step()
	require.NoError(t, err)
	assert.Nil(t, move, "finished sessions do not move")
}

func TestSessionLosesOnMine(t *testing.T) {
	board, err := game.NewBoardWithMines(1, 1, []game.Cell{{Row: 0, Col: 0}})
	require.NoError(t, err)

	s, err := NewSession(board, solver.New(1, 1), nil)
	require.NoError(t, err)

	res, err := s.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeLost, res.Outcome)
	require.NotNil(t, res.HitMine)
	assert.Equal(t, game.Cell{Row: 0, Col: 0}, *res.HitMine)
	assert.Equal(t, 1, res.RandomMoves)
}

func TestSessionStallsWithoutMoves(t *testing.T) {
	board, err := game.NewBoardWithMines(1, 1, nil)
	require.NoError(t, err)
	agent := solver.New(1, 1)
	require.NoError(t, agent.MarkMine(game.Cell{Row: 0, Col: 0}))

	s, err := NewSession(board, agent, nil)
	require.NoError(t, err)

	res, err := s.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeStalled, res.Outcome)
	assert.Zero(t, res.Moves)
}

func TestSessionFlagsRemainingCellsWhenSafesExhausted(t *testing.T) {
	board, err := game.NewBoardWithMines(1, 2, []game.Cell{{Row: 0, Col: 1}})
	require.NoError(t, err)
	agent := solver.New(1, 2)
	require.NoError(t, agent.AddKnowledge(game.Cell{Row: 0, Col: 0}, 1))

	s, err := NewSession(board, agent, nil)
	require.NoError(t, err)
	assert.Equal(t, []game.Cell{{Row: 0, Col: 1}}, s.Flags())
}

func TestNewSessionSizeMismatch(t *testing.T) {
	board, err := game.NewBoardWithMines(3, 3, nil)
	require.NoError(t, err)

	_, err = NewSession(board, solver.New(4, 4), nil)
	assert.ErrorContains(t, err, "agent expects 4x4")
}

func batchConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Batch.Games = 20
	cfg.Batch.Workers = 4
	cfg.Batch.Seed = 1
	return cfg
}

func TestRunBatchIsReproducible(t *testing.T) {
	cfg := batchConfig()

	first, sum, err := RunBatch(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, first, 20)
	assert.Equal(t, 20, sum.Won+sum.Lost+sum.Stalled)

	second, _, err := RunBatch(context.Background(), cfg, nil)
	require.NoError(t, err)
	for i := range first {
		assert.NotEqual(t, OutcomePlaying, first[i].Outcome)
		assert.NotEqual(t, uuid.Nil, first[i].ID)
		assert.Equal(t, first[i].Outcome, second[i].Outcome, "game %d", i)
		assert.Equal(t, first[i].Moves, second[i].Moves, "game %d", i)
	}
}

func TestRunBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := RunBatch(ctx, batchConfig(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatchRejectsInvalidConfig(t *testing.T) {
	cfg := batchConfig()
	cfg.Board.Mines = 100

	_, _, err := RunBatch(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "invalid config")
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Result{
		{Outcome: OutcomeWon, Moves: 10},
		{Outcome: OutcomeLost, Moves: 2},
		{Outcome: OutcomeWon, Moves: 6},
		{Outcome: OutcomeStalled, Moves: 2},
	})
	assert.Equal(t, Summary{Games: 4, Won: 2, Lost: 1, Stalled: 1, WinRate: 0.5, MeanMoves: 5}, sum)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestWriteCSV(t *testing.T) {
	hit := game.Cell{Row: 1, Col: 2}
	id := uuid.New()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Result{
		{ID: id, Outcome: OutcomeLost, Moves: 3, SafeMoves: 1, RandomMoves: 2, HitMine: &hit},
	}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{id.String(), "lost", "3", "1", "2", "0", "1:2"}, rows[1])
}
