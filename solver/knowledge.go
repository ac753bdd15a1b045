package solver

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"minesweeper/game"
)

var (
	// ErrInvalidCount は周囲の地雷数としてありえない値を渡されたときに返されます
	ErrInvalidCount = errors.New("invalid nearby mine count")
	// ErrContradiction は知識ベースの不変条件が壊れたときに返されます。
	// 観測が盤面と食い違っているか推論のバグです
	ErrContradiction = errors.New("knowledge base contradiction")
)

// KnowledgeBase は1ゲーム分のエージェントの知識を持ちます。
// 盤面サイズはインスタンスごとに持ち、複数のゲームで共有しません
type KnowledgeBase struct {
	height int
	width  int

	movesMade map[game.Cell]struct{} // すでに開けたマス
	safes     map[game.Cell]struct{} // 安全と分かったマス
	mines     map[game.Cell]struct{} // 地雷と分かったマス
	knowledge []*Sentence

	rand           *rand.Rand
	randomAttempts int // 0 なら候補を列挙して選ぶ
	logger         *zap.Logger
}

// Option は KnowledgeBase の設定を変更します
type Option func(*KnowledgeBase)

// WithLogger は推論の経過を出力するロガーを設定します
func WithLogger(l *zap.Logger) Option {
	return func(kb *KnowledgeBase) {
		if l != nil {
			kb.logger = l
		}
	}
}

// WithRand はランダム手に使う乱数源を設定します
func WithRand(r *rand.Rand) Option {
	return func(kb *KnowledgeBase) {
		if r != nil {
			kb.rand = r
		}
	}
}

// WithRandomAttempts はランダム手を試行回数つきのサンプリングで選ぶようにします。
// n <= 0 なら未確定マスを列挙して一様に選びます
func WithRandomAttempts(n int) Option {
	return func(kb *KnowledgeBase) { kb.randomAttempts = n }
}

// New は height x width の盤面用の空の知識ベースを返します
func New(height, width int, opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		height:    height,
		width:     width,
		movesMade: make(map[game.Cell]struct{}),
		safes:     make(map[game.Cell]struct{}),
		mines:     make(map[game.Cell]struct{}),
		rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb
}

// Height は盤面の縦のマス数を返します
func (kb *KnowledgeBase) Height() int { return kb.height }

// Width は盤面の横のマス数を返します
func (kb *KnowledgeBase) Width() int { return kb.width }

func (kb *KnowledgeBase) checkBounds(c game.Cell) error {
	if !game.InBounds(c, kb.height, kb.width) {
		return fmt.Errorf("%w: %v on %dx%d", game.ErrOutOfBounds, c, kb.height, kb.width)
	}
	return nil
}

// MarkSafe は c を安全として記録し、全ての制約から c を取り除きます。
// 何度呼んでも結果は同じです
func (kb *KnowledgeBase) MarkSafe(c game.Cell) error {
	if err := kb.checkBounds(c); err != nil {
		return err
	}
	if _, ok := kb.mines[c]; ok {
		return fmt.Errorf("%w: %v is already known to be a mine", ErrContradiction, c)
	}
	if _, ok := kb.safes[c]; !ok {
		kb.logger.Debug("Marked safe", zap.Stringer("cell", c))
	}
	kb.safes[c] = struct{}{}
	for _, s := range kb.knowledge {
		s.MarkSafe(c)
	}
	return nil
}

// MarkMine は c を地雷として記録し、全ての制約から c を取り除いて地雷数を1減らします。
// 何度呼んでも結果は同じです
func (kb *KnowledgeBase) MarkMine(c game.Cell) error {
	if err := kb.checkBounds(c); err != nil {
		return err
	}
	if _, ok := kb.safes[c]; ok {
		return fmt.Errorf("%w: %v is already known to be safe", ErrContradiction, c)
	}
	if _, ok := kb.mines[c]; !ok {
		kb.logger.Debug("Marked mine", zap.Stringer("cell", c))
	}
	kb.mines[c] = struct{}{}
	for _, s := range kb.knowledge {
		if s.MarkMine(c) && s.count < 0 {
			return fmt.Errorf("%w: %v drove %v below zero", ErrContradiction, c, s)
		}
	}
	return nil
}

// AddKnowledge は安全なマス c を開けて周囲の地雷数 count が分かったときに呼ばれます。
// 新しい制約を加え、それ以上何も分からなくなるまで推論を進めます
func (kb *KnowledgeBase) AddKnowledge(c game.Cell, count int) error {
	if err := kb.checkBounds(c); err != nil {
		return err
	}
	neighbors := game.Neighbors(c, kb.height, kb.width)
	if count < 0 || count > len(neighbors) {
		return fmt.Errorf("%w: %d for %v with %d neighbors", ErrInvalidCount, count, c, len(neighbors))
	}
	if _, ok := kb.mines[c]; ok {
		return fmt.Errorf("%w: revealed %v is already known to be a mine", ErrContradiction, c)
	}

	// 1. 開けたマスとして記録し、安全として全ての制約から取り除く
	kb.movesMade[c] = struct{}{}
	if err := kb.MarkSafe(c); err != nil {
		return err
	}

	// 2. 周囲のマスを「地雷確定」「安全確定」「未確定」に分ける
	unknown := make([]game.Cell, 0, len(neighbors))
	knownMines := 0
	for _, n := range neighbors {
		if _, ok := kb.mines[n]; ok {
			knownMines++
			continue
		}
		if _, ok := kb.safes[n]; ok {
			continue
		}
		unknown = append(unknown, n)
	}

	// 3. 未確定のマスだけで制約を作る（空でも追加する）
	s := NewSentence(unknown, count-knownMines)
	if !s.valid() {
		return fmt.Errorf("%w: observation %v = %d gives %v", ErrContradiction, c, count, s)
	}
	kb.knowledge = append(kb.knowledge, s)
	kb.logger.Debug("Added sentence",
		zap.Stringer("cell", c),
		zap.Int("count", count),
		zap.Stringer("sentence", s))

	// 4. 不動点まで推論
	return kb.infer()
}

// infer は1周しても何も変わらなくなるまで推論規則を適用します
func (kb *KnowledgeBase) infer() error {
	for pass := 1; ; pass++ {
		changed := false

		// 追加された制約もこの周で見るので len は毎回評価する
		for i := 0; i < len(kb.knowledge); i++ {
			s := kb.knowledge[i]
			if s.Len() == 0 {
				continue
			}

			// 開けたマスは情報を持たないので取り除く
			for _, c := range s.Cells() {
				if _, ok := kb.movesMade[c]; ok {
					s.MarkSafe(c)
					changed = true
				}
			}

			// MarkSafe / MarkMine は他の制約も書き換えるので、コピーに対して回す
			for _, c := range s.KnownSafes() {
				if err := kb.MarkSafe(c); err != nil {
					return err
				}
				changed = true
			}
			for _, c := range s.KnownMines() {
				if err := kb.MarkMine(c); err != nil {
					return err
				}
				changed = true
			}
		}

		if kb.resolveSubsets() {
			changed = true
		}

		if err := kb.checkInvariants(); err != nil {
			return err
		}
		if !changed {
			kb.logger.Debug("Inference reached fixpoint",
				zap.Int("passes", pass),
				zap.Int("sentences", len(kb.knowledge)))
			return nil
		}
	}
}

// resolveSubsets は S1 ⊊ S2 となる組から (S2 - S1, count2 - count1) を導きます。
// 同じマス集合の制約がすでにある場合は追加しません
func (kb *KnowledgeBase) resolveSubsets() bool {
	added := false
	n := len(kb.knowledge)
	for i := range n {
		s1 := kb.knowledge[i]
		if s1.Len() == 0 {
			continue
		}
		for j := range n {
			s2 := kb.knowledge[j]
			if i == j || !s1.strictSubsetOf(s2) {
				continue
			}

			diff := make([]game.Cell, 0, s2.Len()-s1.Len())
			for c := range s2.cells {
				if !s1.Contains(c) {
					diff = append(diff, c)
				}
			}
			derived := NewSentence(diff, s2.count-s1.count)
			if kb.hasCells(derived) {
				continue
			}

			kb.knowledge = append(kb.knowledge, derived)
			kb.logger.Debug("Derived sentence",
				zap.Stringer("from", s2),
				zap.Stringer("minus", s1),
				zap.Stringer("sentence", derived))
			added = true
		}
	}
	return added
}

func (kb *KnowledgeBase) hasCells(s *Sentence) bool {
	for _, k := range kb.knowledge {
		if k.sameCells(s) {
			return true
		}
	}
	return false
}

// checkInvariants は推論1周ごとに成り立つべき条件を確認します
func (kb *KnowledgeBase) checkInvariants() error {
	for c := range kb.safes {
		if _, ok := kb.mines[c]; ok {
			return fmt.Errorf("%w: %v is both safe and a mine", ErrContradiction, c)
		}
	}
	for _, s := range kb.knowledge {
		if !s.valid() {
			return fmt.Errorf("%w: sentence %v", ErrContradiction, s)
		}
		for c := range s.cells {
			_, safe := kb.safes[c]
			_, mine := kb.mines[c]
			if safe || mine {
				return fmt.Errorf("%w: sentence %v still holds resolved cell %v", ErrContradiction, s, c)
			}
		}
	}
	return nil
}

// Safes は安全と分かったマスを行優先で返します
func (kb *KnowledgeBase) Safes() []game.Cell {
	return sortedCells(kb.safes)
}

// Mines は地雷と分かったマスを行優先で返します
func (kb *KnowledgeBase) Mines() []game.Cell {
	return sortedCells(kb.mines)
}

// MovesMade は開けたマスを行優先で返します
func (kb *KnowledgeBase) MovesMade() []game.Cell {
	return sortedCells(kb.movesMade)
}

// IsKnownSafe は c が安全と分かっているかを返します
func (kb *KnowledgeBase) IsKnownSafe(c game.Cell) bool {
	_, ok := kb.safes[c]
	return ok
}

// IsKnownMine は c が地雷と分かっているかを返します
func (kb *KnowledgeBase) IsKnownMine(c game.Cell) bool {
	_, ok := kb.mines[c]
	return ok
}

// Moved は c をすでに開けたかを返します
func (kb *KnowledgeBase) Moved(c game.Cell) bool {
	_, ok := kb.movesMade[c]
	return ok
}

// Sentences は現在の制約のコピーを返します
func (kb *KnowledgeBase) Sentences() []Sentence {
	out := make([]Sentence, 0, len(kb.knowledge))
	for _, s := range kb.knowledge {
		out = append(out, s.clone())
	}
	return out
}

func sortedCells(set map[game.Cell]struct{}) []game.Cell {
	return slices.SortedFunc(maps.Keys(set), game.Compare)
}
