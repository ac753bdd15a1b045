// Package runner はエージェントに盤面を打たせるゲームループです
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"minesweeper/game"
	"minesweeper/solver"
)

// Outcome はゲームの結果です
type Outcome string

const (
	OutcomePlaying Outcome = "playing"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
	OutcomeStalled Outcome = "stalled" // 打つ手がなくなった
)

// Result は1ゲーム分の記録です
type Result struct {
	ID          uuid.UUID
	Outcome     Outcome
	Moves       int
	SafeMoves   int
	RandomMoves int
	Flagged     int
	HitMine     *game.Cell // 踏んだ地雷（負けたときのみ）
}

// Session は1つの盤面と1つの知識ベースを組にして保持します。
// 知識ベースを他のセッションと共有してはいけません
type Session struct {
	ID    uuid.UUID
	Board *game.Board
	Agent *solver.KnowledgeBase

	outcome Outcome
	result  Result
	logger  *zap.Logger
}

// NewSession は新しいセッションを作ります。盤面と知識ベースのサイズが違う場合はエラーです
func NewSession(board *game.Board, agent *solver.KnowledgeBase, logger *zap.Logger) (*Session, error) {
	if board.Height != agent.Height() || board.Width != agent.Width() {
		return nil, fmt.Errorf("board is %dx%d but agent expects %dx%d",
			board.Height, board.Width, agent.Height(), agent.Width())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()
	return &Session{
		ID:      id,
		Board:   board,
		Agent:   agent,
		outcome: OutcomePlaying,
		result:  Result{ID: id, Outcome: OutcomePlaying},
		logger:  logger.With(zap.String("game", id.String())),
	}, nil
}

// Outcome は現在の状態を返します
func (s *Session) Outcome() Outcome { return s.outcome }

// Result はここまでの記録を返します
func (s *Session) Result() Result {
	r := s.result
	r.Outcome = s.outcome
	r.Flagged = len(s.Flags())
	return r
}

// Flags はフラグを立てるマスを返します。
// 安全なマスを全て開け終えていれば、残りの未開封マスも全て地雷として扱います
func (s *Session) Flags() []game.Cell {
	total := s.Board.Height * s.Board.Width
	if len(s.Agent.MovesMade()) != total-s.Board.MineCount() {
		return s.Agent.Mines()
	}

	var flags []game.Cell
	for y := range s.Board.Height {
		for x := range s.Board.Width {
			c := game.Cell{Row: y, Col: x}
			if !s.Agent.Moved(c) {
				flags = append(flags, c)
			}
		}
	}
	return flags
}

// Step はエージェントに1手進めさせ、打った手を返します。
// ゲームが終わっていれば nil です
func (s *Session) Step() (*solver.Move, error) {
	if s.outcome != OutcomePlaying {
		return nil, nil
	}

	move := s.Agent.NextMove()
	if move == nil {
		s.finish(OutcomeStalled)
		return nil, nil
	}

	s.result.Moves++
	if move.IsGuess {
		s.result.RandomMoves++
	} else {
		s.result.SafeMoves++
	}
	s.logger.Debug("Move",
		zap.Int("row", move.Cell.Row),
		zap.Int("col", move.Cell.Col),
		zap.String("strategy", string(move.Strategy)))

	mine, err := s.Board.IsMine(move.Cell)
	if err != nil {
		return nil, err
	}
	if mine {
		hit := move.Cell
		s.result.HitMine = &hit
		s.finish(OutcomeLost)
		return move, nil
	}

	count, err := s.Board.NearbyMines(move.Cell)
	if err != nil {
		return nil, err
	}
	if err := s.Agent.AddKnowledge(move.Cell, count); err != nil {
		return nil, fmt.Errorf("add knowledge for %v: %w", move.Cell, err)
	}

	if s.Board.Won(s.Flags()) {
		s.finish(OutcomeWon)
	}
	return move, nil
}

// Play はゲームが終わるまで Step を繰り返します
func (s *Session) Play(ctx context.Context) (Result, error) {
	s.logger.Info("Game started",
		zap.Int("height", s.Board.Height),
		zap.Int("width", s.Board.Width),
		zap.Int("mines", s.Board.MineCount()))

	for s.outcome == OutcomePlaying {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}
		if _, err := s.Step(); err != nil {
			return s.Result(), err
		}
	}
	return s.Result(), nil
}

func (s *Session) finish(o Outcome) {
	s.outcome = o
	s.logger.Info("Game finished",
		zap.String("outcome", string(o)),
		zap.Int("moves", s.result.Moves),
		zap.Int("random_moves", s.result.RandomMoves))
}
