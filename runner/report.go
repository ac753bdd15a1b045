package runner

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"id", "outcome", "moves", "safe_moves", "random_moves", "flagged", "hit_mine"}

// WriteCSV は1ゲーム1行で結果を書き出します
func WriteCSV(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		hit := ""
		if r.HitMine != nil {
			hit = fmt.Sprintf("%d:%d", r.HitMine.Row, r.HitMine.Col)
		}
		row := []string{
			r.ID.String(),
			string(r.Outcome),
			strconv.Itoa(r.Moves),
			strconv.Itoa(r.SafeMoves),
			strconv.Itoa(r.RandomMoves),
			strconv.Itoa(r.Flagged),
			hit,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
