// Package chooser provides guess strategies for code-breaking games.
// Every strategy is a plain function value, so drivers can swap them freely.
//
// Package chooser はコード当てゲームの推測戦略を提供します。
// 全ての戦略はただの関数値であり、ドライバー側で自由に差し替えられます。
package chooser

import (
	"errors"
	"fmt"
	"github.com/sw965/mastermind"
	"github.com/sw965/omw/mathx/randx"
	"math/rand/v2"
)

var (
	ErrEmptyUniverse   = errors.New("universeエラー: 要素数が0です")
	ErrEmptyCandidates = errors.New("candidatesエラー: 要素数が0です")
	ErrUnknownName     = errors.New("chooserエラー: 未知の戦略名です")
)

// Func selects the next guess. universe is the full pattern space in
// canonical order, and candidates holds the patterns still consistent with
// the history, also in canonical order. Deterministic strategies ignore rng.
//
// Funcは次の推測を選びます。universeは正準順序の全パターン空間、
// candidatesは履歴と矛盾しないパターンの集合（同じく正準順序）です。
// 決定的な戦略はrngを無視します。
type Func func(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error)

// First returns the first remaining candidate, which in canonical order is
// the lexicographically smallest consistent pattern.
func First(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}
	return candidates[0], nil
}

// Random returns a uniformly random remaining candidate.
func Random(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}
	return randx.Choice(candidates, rng)
}

// Polychrome returns the remaining candidate with the most distinct colors,
// breaking ties toward the earlier (lexicographically smaller) candidate.
func Polychrome(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}

	best := candidates[0]
	bestN := best.DistinctColors()
	for _, candidate := range candidates[1:] {
		if n := candidate.DistinctColors(); n > bestN {
			best = candidate
			bestN = n
		}
	}
	return best, nil
}

// New resolves a strategy by name. parallelism is the worker count for the
// scanning strategies; the other strategies ignore it.
func New(name string, parallelism int) (Func, error) {
	switch name {
	case "first":
		return First, nil
	case "random":
		return Random, nil
	case "polychrome":
		return Polychrome, nil
	case "minimax-best":
		return NewMinimaxBest(parallelism), nil
	case "minimax-worst":
		return NewMinimaxWorst(parallelism), nil
	case "entropy":
		return NewEntropy(parallelism), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
}

// Names returns the strategy names New accepts.
func Names() []string {
	return []string{"first", "random", "polychrome", "minimax-best", "minimax-worst", "entropy"}
}
