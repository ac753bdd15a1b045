package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize は盤面の縦横が正でないときに返されます
	ErrInvalidSize = errors.New("board size must be positive")
	// ErrNegativeMines は地雷数が負のときに返されます
	ErrNegativeMines = errors.New("mine count must not be negative")
	// ErrTooManyMines は地雷数がマス数を超えるときに返されます
	ErrTooManyMines = errors.New("too many mines for board")
	// ErrOutOfBounds は盤面外のマスを問い合わせたときに返されます
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Cell は盤面上の1つのマスの座標 (行, 列) です。0始まり。
// 値型なので map のキーとしてそのまま使えます
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Less は行優先の順序で c が o より前なら true を返します
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Compare は slices.SortFunc 用の比較関数です
func Compare(a, b Cell) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// Board は正解（地雷の位置）を持つ盤面です。
// 生成後は読み取り専用で、推論側から書き換えられることはありません
type Board struct {
	Height int      // 縦のマス数
	Width  int      // 横のマス数
	cells  [][]bool // true なら地雷
	mines  map[Cell]struct{}
}
