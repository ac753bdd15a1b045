package solver

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"minesweeper/game"
)

// Sentence は「cells のうちちょうど count 個が地雷」という制約です。
// 推論が進むと同じ Sentence がその場で書き換えられます
type Sentence struct {
	cells map[game.Cell]struct{}
	count int
}

// NewSentence は cells と count から Sentence を作ります
func NewSentence(cells []game.Cell, count int) *Sentence {
	s := &Sentence{cells: make(map[game.Cell]struct{}, len(cells)), count: count}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	return s
}

// Cells は制約に含まれるマスを行優先で返します
func (s *Sentence) Cells() []game.Cell {
	return slices.SortedFunc(maps.Keys(s.cells), game.Compare)
}

// Count は残りの地雷数を返します
func (s *Sentence) Count() int { return s.count }

// Len はマスの数を返します
func (s *Sentence) Len() int { return len(s.cells) }

// Contains は c が制約に含まれるかを返します
func (s *Sentence) Contains(c game.Cell) bool {
	_, ok := s.cells[c]
	return ok
}

// Equal はマス集合と地雷数がともに一致するかを返します
func (s *Sentence) Equal(o *Sentence) bool {
	return s.count == o.count && s.sameCells(o)
}

func (s *Sentence) sameCells(o *Sentence) bool {
	if len(s.cells) != len(o.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

// strictSubsetOf は s が空でなく o の真部分集合なら true を返します
func (s *Sentence) strictSubsetOf(o *Sentence) bool {
	if len(s.cells) == 0 || len(s.cells) >= len(o.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := o.cells[c]; !ok {
			return false
		}
	}
	return true
}

// KnownMines は全マスが地雷と分かる場合にそのマスを返します。
// 空の制約は何も示さないので nil です
func (s *Sentence) KnownMines() []game.Cell {
	if len(s.cells) == 0 || len(s.cells) != s.count {
		return nil
	}
	return s.Cells()
}

// KnownSafes は地雷数が0の場合に全マスを返します
func (s *Sentence) KnownSafes() []game.Cell {
	if len(s.cells) == 0 || s.count != 0 {
		return nil
	}
	return s.Cells()
}

// MarkMine は c が地雷と分かったときに c を取り除き地雷数を1減らします
func (s *Sentence) MarkMine(c game.Cell) bool {
	if _, ok := s.cells[c]; !ok {
		return false
	}
	delete(s.cells, c)
	s.count--
	return true
}

// MarkSafe は c が安全と分かったときに c を取り除きます
func (s *Sentence) MarkSafe(c game.Cell) bool {
	if _, ok := s.cells[c]; !ok {
		return false
	}
	delete(s.cells, c)
	return true
}

// valid は 0 <= count <= |cells| を満たすかを返します
func (s *Sentence) valid() bool {
	return s.count >= 0 && s.count <= len(s.cells)
}

// clone は書き換えの影響を受けないコピーを返します
func (s *Sentence) clone() Sentence {
	return Sentence{cells: maps.Clone(s.cells), count: s.count}
}

func (s *Sentence) String() string {
	parts := make([]string, 0, len(s.cells))
	for _, c := range s.Cells() {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(parts, ", "), s.count)
}
