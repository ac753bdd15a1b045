package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestNewBoardPlacesExactMineCount(t *testing.T) {
	for _, mines := range []int{0, 1, 10, 63, 64} {
		b, err := NewBoard(8, 8, mines, newRand(uint64(mines)))
		require.NoError(t, err)
		assert.Equal(t, mines, b.MineCount())
		assert.Len(t, b.Mines(), mines)
	}
}

func TestNewBoardRejectsBadConfig(t *testing.T) {
	_, err := NewBoard(3, 3, 10, newRand(1))
	assert.True(t, errors.Is(err, ErrTooManyMines))

	_, err = NewBoard(3, 3, -1, newRand(1))
	assert.True(t, errors.Is(err, ErrNegativeMines))
	assert.False(t, errors.Is(err, ErrTooManyMines))

	_, err = NewBoard(0, 3, 1, newRand(1))
	assert.True(t, errors.Is(err, ErrInvalidSize))
}

func TestNearbyMines(t *testing.T) {
	b, err := NewBoardWithMines(3, 3, []Cell{{0, 0}, {2, 2}})
	require.NoError(t, err)

	tests := []struct {
		cell Cell
		want int
	}{
		{Cell{1, 1}, 2},
		{Cell{0, 1}, 1},
		{Cell{0, 0}, 0},
		{Cell{2, 0}, 0},
		{Cell{1, 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.cell.String(), func(t *testing.T) {
			got, err := b.NearbyMines(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueriesOutOfBounds(t *testing.T) {
	b, err := NewBoardWithMines(2, 2, nil)
	require.NoError(t, err)

	for _, c := range []Cell{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		_, err := b.IsMine(c)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = b.NearbyMines(c)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}

	_, err = NewBoardWithMines(2, 2, []Cell{{5, 5}})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestIsMine(t *testing.T) {
	b, err := NewBoardWithMines(3, 3, []Cell{{2, 2}})
	require.NoError(t, err)

	ok, err := b.IsMine(Cell{2, 2})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.IsMine(Cell{0, 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWon(t *testing.T) {
	b, err := NewBoardWithMines(3, 3, []Cell{{0, 0}, {2, 2}})
	require.NoError(t, err)

	assert.True(t, b.Won([]Cell{{2, 2}, {0, 0}}))
	assert.True(t, b.Won([]Cell{{2, 2}, {0, 0}, {0, 0}}))
	assert.False(t, b.Won([]Cell{{0, 0}}), "subset")
	assert.False(t, b.Won([]Cell{{0, 0}, {2, 2}, {1, 1}}), "superset")
	assert.False(t, b.Won(nil))
}

func TestNeighborsClippedToBounds(t *testing.T) {
	assert.Equal(t, []Cell{{0, 1}, {1, 0}, {1, 1}}, Neighbors(Cell{0, 0}, 3, 3))
	assert.Len(t, Neighbors(Cell{1, 1}, 3, 3), 8)
	assert.Len(t, Neighbors(Cell{0, 0}, 1, 1), 0)
}

func TestBoardString(t *testing.T) {
	b, err := NewBoardWithMines(2, 2, []Cell{{0, 1}})
	require.NoError(t, err)

	want := "-----\n" +
		"| |X|\n" +
		"-----\n" +
		"| | |\n" +
		"-----\n"
	assert.Equal(t, want, b.String())
}
