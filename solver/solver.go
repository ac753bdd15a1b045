package solver

import (
	"go.uber.org/zap"

	"minesweeper/game"
)

// Strategy は手をどうやって選んだかを表します
type Strategy string

const (
	StrategyLogic  Strategy = "Logic"  // 推論で安全と分かっている
	StrategyRandom Strategy = "Random" // 運任せ
)

// Move はエージェントが次に開けるマスです
type Move struct {
	Cell     game.Cell
	IsGuess  bool // 運任せかどうか
	Strategy Strategy
}

// NextMove は安全と分かっている手を優先し、なければランダムな手を返します。
// 打つ手がなければ nil です
func (kb *KnowledgeBase) NextMove() *Move {
	// 1. 論理的に「絶対に安全」
	if c, ok := kb.MakeSafeMove(); ok {
		return &Move{Cell: c, Strategy: StrategyLogic}
	}

	// 2. ランダム
	if c, ok := kb.MakeRandomMove(); ok {
		return &Move{Cell: c, IsGuess: true, Strategy: StrategyRandom}
	}
	return nil
}

// MakeSafeMove は安全と分かっていてまだ開けていないマスを行優先で1つ返します。
// 知識ベースは変更しません
func (kb *KnowledgeBase) MakeSafeMove() (game.Cell, bool) {
	for _, c := range kb.Safes() {
		if kb.Moved(c) || kb.IsKnownMine(c) {
			continue
		}
		return c, true
	}
	return game.Cell{}, false
}

// MakeRandomMove はまだ開けておらず地雷とも分かっていないマスをランダムに返します。
// 候補がなければ false です
func (kb *KnowledgeBase) MakeRandomMove() (game.Cell, bool) {
	if kb.randomAttempts > 0 {
		return kb.sampleRandomMove()
	}

	candidates := kb.unknownCells()
	if len(candidates) == 0 {
		return game.Cell{}, false
	}
	return candidates[kb.rand.IntN(len(candidates))], true
}

// sampleRandomMove は盤面全体から randomAttempts 回まで抽選します。
// 残りの候補が少ない盤面では候補があっても見つけられないことがあります
func (kb *KnowledgeBase) sampleRandomMove() (game.Cell, bool) {
	if kb.height <= 0 || kb.width <= 0 {
		return game.Cell{}, false
	}
	for range kb.randomAttempts {
		c := game.Cell{Row: kb.rand.IntN(kb.height), Col: kb.rand.IntN(kb.width)}
		if !kb.Moved(c) && !kb.IsKnownMine(c) {
			return c, true
		}
	}
	kb.logger.Debug("Random move gave up", zap.Int("attempts", kb.randomAttempts))
	return game.Cell{}, false
}

// unknownCells は開けておらず地雷とも分かっていないマスを行優先で返します
func (kb *KnowledgeBase) unknownCells() []game.Cell {
	var out []game.Cell
	for y := range kb.height {
		for x := range kb.width {
			c := game.Cell{Row: y, Col: x}
			if !kb.Moved(c) && !kb.IsKnownMine(c) {
				out = append(out, c)
			}
		}
	}
	return out
}
