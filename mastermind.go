// Package mastermind provides the core model for code-breaking games:
// patterns, feedback grading and candidate tracking.
// Guess strategies live in the chooser subpackage, and game progression in game.
//
// Package mastermind はコード当てゲームの中核モデル（パターン、フィードバック採点、候補追跡）を提供します。
// 推測戦略は chooser サブパッケージ、対局の進行は game サブパッケージにあります。
package mastermind

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/stat/combin"
	"slices"
)

var (
	ErrInvalidSize = errors.New("サイズエラー: positionsとcolorsは1以上である必要があります")

	ErrInvalidPattern  = errors.New("Patternエラー: 長さまたは色が不正です")
	ErrInvalidFeedback = errors.New("Feedbackエラー: あり得ない値です")

	ErrInconsistentFeedback = errors.New("Feedbackエラー: 今までの履歴と矛盾しています（候補が空になりました）")
)

// Color is a peg color, encoded as an integer in [0, colors).
//
// Colorはペグの色で、[0, colors) の整数として符号化されます。
type Color int

// Pattern is an ordered arrangement of colors. Patterns are treated as
// immutable: nothing in this module modifies one after creation, and callers
// sharing patterns across goroutines must follow the same rule.
//
// Patternは色の順序付き配列です。Patternは不変として扱います。
// このモジュールは作成後のPatternを変更せず、ゴルーチン間で共有する場合も
// 呼び出し側が同じ規約を守る必要があります。
type Pattern []Color

type Patterns []Pattern

// Equal reports whether both patterns hold the same color at every position.
func (p Pattern) Equal(other Pattern) bool {
	return slices.Equal(p, other)
}

func (p Pattern) Clone() Pattern {
	return slices.Clone(p)
}

// Validate checks that the pattern has exactly positions pegs and that every
// color is within [0, colors).
func (p Pattern) Validate(positions, colors int) error {
	if len(p) != positions {
		return fmt.Errorf("%w: 長さ=%d, 期待する長さ=%d", ErrInvalidPattern, len(p), positions)
	}
	for i, c := range p {
		if c < 0 || int(c) >= colors {
			return fmt.Errorf("%w: 位置=%d, 色=%d, 色数=%d", ErrInvalidPattern, i, c, colors)
		}
	}
	return nil
}

// DistinctColors returns the number of distinct colors in the pattern.
func (p Pattern) DistinctColors() int {
	n := 0
	for i, c := range p {
		if !slices.Contains(p[:i], c) {
			n++
		}
	}
	return n
}

// Code packs the pattern into a single integer, leftmost position most
// significant. Within one universe the code order matches the universe
// (lexicographic) order, so codes double as compact set-membership keys.
//
// Codeはパターンを1つの整数に詰め込みます。左端の位置が最上位です。
// 同じユニバース内ではCodeの大小関係が辞書順と一致する為、
// 集合の所属判定用のコンパクトなキーとしても使えます。
func (p Pattern) Code(colors int) int {
	code := 0
	for _, c := range p {
		code = code*colors + int(c)
	}
	return code
}

// NewUniverse enumerates every pattern of the given size in lexicographic
// order, leftmost position most significant. This order is the canonical
// order: candidate sets and strategy tie-breaks all follow it.
//
// NewUniverseは与えられたサイズの全パターンを辞書順（左端の位置が最上位）で列挙します。
// この順序が正準順序であり、候補集合や戦略のタイブレークは全てこの順序に従います。
func NewUniverse(positions, colors int) (Patterns, error) {
	if positions < 1 || colors < 1 {
		return nil, fmt.Errorf("%w: positions=%d, colors=%d", ErrInvalidSize, positions, colors)
	}

	lens := make([]int, positions)
	n := 1
	for i := range lens {
		lens[i] = colors
		n *= colors
	}

	universe := make(Patterns, 0, n)
	buf := make([]int, positions)
	gen := combin.NewCartesianGenerator(lens)
	for gen.Next() {
		gen.Product(buf)
		pattern := make(Pattern, positions)
		for i, c := range buf {
			pattern[i] = Color(c)
		}
		universe = append(universe, pattern)
	}
	return universe, nil
}

// InitialCandidates returns a fresh candidate set holding every pattern of
// the universe. The outer slice is caller-owned; the patterns themselves are
// shared and must not be mutated.
//
// InitialCandidatesはユニバースの全パターンを持つ新しい候補集合を返します。
// 外側のスライスは呼び出し側の所有ですが、パターン自体は共有される為、変更してはいけません。
func InitialCandidates(universe Patterns) Patterns {
	return slices.Clone(universe)
}
