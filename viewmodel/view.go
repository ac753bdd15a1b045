package viewmodel

import (
	"encoding/json"

	"minesweeper/game"
	"minesweeper/runner"
)

// マスの表示状態
const (
	StateHidden  = "hidden"  // 何も分かっていない
	StateOpened  = "opened"  // 開けた
	StateSafe    = "safe"    // 安全と分かっているがまだ開けていない
	StateFlagged = "flagged" // 地雷と分かっている
)

type CellView struct {
	State  string `json:"state"`
	Count  int    `json:"count"`
	IsMine bool   `json:"is_mine"`
}

type GameView struct {
	ID             string       `json:"id"`
	Cells          [][]CellView `json:"cells"`
	MovesMade      int          `json:"moves_made"`
	MinesRemaining int          `json:"mines_remaining"`
	Sentences      int          `json:"sentences"`
	Outcome        string       `json:"outcome"`
}

// NewGameView はセッションの盤面とエージェントの知識をJSONで返します
func NewGameView(s *runner.Session) string {
	if s == nil {
		return "{}"
	}

	b := s.Board
	kb := s.Agent
	outcome := s.Outcome()
	flags := s.Flags()
	flagged := make(map[game.Cell]bool, len(flags))
	for _, c := range flags {
		flagged[c] = true
	}

	grid := make([][]CellView, b.Height)
	for y := range b.Height {
		grid[y] = make([]CellView, b.Width)
		for x := range b.Width {
			c := game.Cell{Row: y, Col: x}
			v := CellView{State: StateHidden}

			switch {
			case kb.Moved(c):
				v.State = StateOpened
				v.Count, _ = b.NearbyMines(c)
			case flagged[c]:
				v.State = StateFlagged
			case kb.IsKnownSafe(c):
				v.State = StateSafe
			}
			grid[y][x] = v
		}
	}

	// 負けたら全ての地雷を見せる
	if outcome == runner.OutcomeLost {
		for _, m := range b.Mines() {
			grid[m.Row][m.Col] = CellView{State: StateOpened, IsMine: true}
		}
	}

	view := GameView{
		ID:             s.ID.String(),
		Cells:          grid,
		MovesMade:      len(kb.MovesMade()),
		MinesRemaining: b.MineCount() - len(flags),
		Sentences:      len(kb.Sentences()),
		Outcome:        string(outcome),
	}

	bytes, _ := json.Marshal(view)
	return string(bytes)
}
