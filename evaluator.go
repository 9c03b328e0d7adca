package mastermind

import (
	"fmt"
)

// Evaluator grades guesses against secrets. It reuses internal per-color
// tally buffers between calls, so a single Evaluator must not be used
// concurrently. Create one per goroutine.
//
// Evaluatorは推測を秘密パターンと照合して採点します。色毎の集計バッファを
// 呼び出し間で使い回す為、同一のEvaluatorを並行に使ってはいけません。
// ゴルーチン毎に1つ作成してください。
type Evaluator struct {
	positions     int
	colors        int
	guessTallies  []int
	secretTallies []int
}

func NewEvaluator(positions, colors int) (*Evaluator, error) {
	if positions < 1 || colors < 1 {
		return nil, fmt.Errorf("%w: positions=%d, colors=%d", ErrInvalidSize, positions, colors)
	}
	return &Evaluator{
		positions:     positions,
		colors:        colors,
		guessTallies:  make([]int, colors),
		secretTallies: make([]int, colors),
	}, nil
}

func (e *Evaluator) Positions() int {
	return e.positions
}

func (e *Evaluator) Colors() int {
	return e.colors
}

// Evaluate returns the feedback the secret holder would give for the guess.
// One pass counts the exact matches and tallies the colors of the remaining
// positions on both sides; White is then the sum over colors of the smaller
// tally, which counts color-only matches without reusing any position.
//
// Evaluateは秘密パターンの保持者が推測に対して返すフィードバックを求めます。
// 1回の走査で完全一致を数え、残りの位置の色を推測側と秘密側それぞれで集計します。
// 色毎に小さい方の集計値を合計したものがWhiteであり、位置の重複なく色のみの一致を数えます。
func (e *Evaluator) Evaluate(guess, secret Pattern) (Feedback, error) {
	if err := guess.Validate(e.positions, e.colors); err != nil {
		return Feedback{}, fmt.Errorf("guess: %w", err)
	}
	if err := secret.Validate(e.positions, e.colors); err != nil {
		return Feedback{}, fmt.Errorf("secret: %w", err)
	}

	clear(e.guessTallies)
	clear(e.secretTallies)

	black := 0
	for i, g := range guess {
		s := secret[i]
		if g == s {
			black++
		} else {
			e.guessTallies[g]++
			e.secretTallies[s]++
		}
	}

	white := 0
	for c, gn := range e.guessTallies {
		white += min(gn, e.secretTallies[c])
	}
	return Feedback{Black: black, White: white}, nil
}

// Filter returns the candidates that would have produced the observed
// feedback for the guess, preserving their order. A non-empty input that
// filters down to nothing means the feedback contradicts the history, which
// is reported as ErrInconsistentFeedback instead of an empty result.
//
// Filterは、観測されたフィードバックを生み出し得る候補だけを順序を保って返します。
// 空でない入力が空になった場合、フィードバックが履歴と矛盾している為、
// 空集合ではなくErrInconsistentFeedbackを返します。
func (e *Evaluator) Filter(candidates Patterns, guess Pattern, fb Feedback) (Patterns, error) {
	if err := fb.Validate(e.positions); err != nil {
		return nil, err
	}

	filtered := make(Patterns, 0, len(candidates))
	for _, candidate := range candidates {
		got, err := e.Evaluate(guess, candidate)
		if err != nil {
			return nil, err
		}
		if got == fb {
			filtered = append(filtered, candidate)
		}
	}

	if len(filtered) == 0 && len(candidates) > 0 {
		return nil, fmt.Errorf("%w: guess=%v, feedback=%v", ErrInconsistentFeedback, guess, fb)
	}
	return filtered, nil
}

// Evaluate is a convenience wrapper that sizes a throwaway Evaluator from its
// arguments. For repeated grading, create an Evaluator once and reuse it.
func Evaluate(guess, secret Pattern) (Feedback, error) {
	if len(guess) == 0 || len(guess) != len(secret) {
		return Feedback{}, fmt.Errorf("%w: 長さ guess=%d, secret=%d", ErrInvalidPattern, len(guess), len(secret))
	}

	maxColor := Color(0)
	for _, p := range []Pattern{guess, secret} {
		for _, c := range p {
			if c < 0 {
				return Feedback{}, fmt.Errorf("%w: 負の色=%d", ErrInvalidPattern, c)
			}
			if c > maxColor {
				maxColor = c
			}
		}
	}

	ev, err := NewEvaluator(len(guess), int(maxColor)+1)
	if err != nil {
		return Feedback{}, err
	}
	return ev.Evaluate(guess, secret)
}
