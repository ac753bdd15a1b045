package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// NewBoard は指定されたサイズと地雷数で盤面を初期化して返します。
// 地雷数がマス数を超える場合は配置を始める前にエラーを返します
func NewBoard(height, width, mineCount int, r *rand.Rand) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, height, width)
	}
	if mineCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeMines, mineCount)
	}
	if mineCount > height*width {
		return nil, fmt.Errorf("%w: %d mines on %d cells", ErrTooManyMines, mineCount, height*width)
	}

	board := newEmptyBoard(height, width)
	board.placeMines(mineCount, r)
	return board, nil
}

// NewBoardWithMines は地雷の位置を指定して盤面を作ります（テストや再現用）
func NewBoardWithMines(height, width int, mines []Cell) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, height, width)
	}

	board := newEmptyBoard(height, width)
	for _, m := range mines {
		if !board.InBounds(m) {
			return nil, fmt.Errorf("mine %v: %w", m, ErrOutOfBounds)
		}
		board.cells[m.Row][m.Col] = true
		board.mines[m] = struct{}{}
	}
	return board, nil
}

func newEmptyBoard(height, width int) *Board {
	cells := make([][]bool, height)
	for y := range height {
		cells[y] = make([]bool, width)
	}
	return &Board{
		Height: height,
		Width:  width,
		cells:  cells,
		mines:  make(map[Cell]struct{}),
	}
}

// placeMines は地雷をランダムに配置します。
// 呼び出し側で count <= マス数 を保証しているので必ず終了します
func (b *Board) placeMines(count int, r *rand.Rand) {
	for len(b.mines) < count {
		y := r.IntN(b.Height)
		x := r.IntN(b.Width)

		if !b.cells[y][x] {
			b.cells[y][x] = true
			b.mines[Cell{Row: y, Col: x}] = struct{}{}
		}
	}
}

// InBounds は c が盤面内にあるかを返します
func (b *Board) InBounds(c Cell) bool {
	return InBounds(c, b.Height, b.Width)
}

// IsMine は c が地雷かどうかを返します
func (b *Board) IsMine(c Cell) (bool, error) {
	if !b.InBounds(c) {
		return false, fmt.Errorf("%w: %v on %dx%d", ErrOutOfBounds, c, b.Height, b.Width)
	}
	return b.cells[c.Row][c.Col], nil
}

// NearbyMines は c の周囲8マス（盤面内のみ、自分自身は除く）にある地雷の数を返します
func (b *Board) NearbyMines(c Cell) (int, error) {
	if !b.InBounds(c) {
		return 0, fmt.Errorf("%w: %v on %dx%d", ErrOutOfBounds, c, b.Height, b.Width)
	}

	count := 0
	for _, n := range b.Neighbors(c) {
		if b.cells[n.Row][n.Col] {
			count++
		}
	}
	return count, nil
}

// Neighbors は c の周囲8マスのうち盤面内にあるものを行優先で返します
func (b *Board) Neighbors(c Cell) []Cell {
	return Neighbors(c, b.Height, b.Width)
}

// Won はフラグを立てたマスの集合が地雷の集合とちょうど一致するかを返します
func (b *Board) Won(flagged []Cell) bool {
	seen := make(map[Cell]struct{}, len(flagged))
	for _, c := range flagged {
		if _, ok := b.mines[c]; !ok {
			return false
		}
		seen[c] = struct{}{}
	}
	return len(seen) == len(b.mines)
}

// MineCount は盤面上の地雷の数を返します
func (b *Board) MineCount() int {
	return len(b.mines)
}

// Mines は地雷の位置を行優先で返します
func (b *Board) Mines() []Cell {
	out := make([]Cell, 0, len(b.mines))
	for y := range b.Height {
		for x := range b.Width {
			if b.cells[y][x] {
				out = append(out, Cell{Row: y, Col: x})
			}
		}
	}
	return out
}

// String は地雷の位置を「X」で表したテキストを返します（デバッグ用）
func (b *Board) String() string {
	var sb strings.Builder
	sep := strings.Repeat("--", b.Width) + "-\n"
	for y := range b.Height {
		sb.WriteString(sep)
		for x := range b.Width {
			if b.cells[y][x] {
				sb.WriteString("|X")
			} else {
				sb.WriteString("| ")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(sep)
	return sb.String()
}

// InBounds は c が height x width の盤面内にあるかを返します
func InBounds(c Cell, height, width int) bool {
	return c.Row >= 0 && c.Row < height && c.Col >= 0 && c.Col < width
}

// Neighbors は height x width の盤面における c の周囲8マスを返します
func Neighbors(c Cell, height, width int) []Cell {
	out := make([]Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Cell{Row: c.Row + dy, Col: c.Col + dx}
			if InBounds(n, height, width) {
				out = append(out, n)
			}
		}
	}
	return out
}
