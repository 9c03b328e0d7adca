package mastermind

import (
	"fmt"
)

// Feedback is the graded response to a guess. Black counts pegs matching the
// secret in both color and position, White counts pegs matching in color
// only. No position contributes to both counts.
//
// Feedbackは推測に対する採点結果です。Blackは色も位置も一致したペグの数、
// Whiteは色のみ一致したペグの数です。同じ位置が両方に数えられる事はありません。
type Feedback struct {
	Black int
	White int
}

// IsSolved reports whether the feedback identifies the guess as the secret.
func (f Feedback) IsSolved(positions int) bool {
	return f.Black == positions
}

// Validate checks that the feedback is achievable for the given number of
// positions. (positions-1, 1) is rejected: when all but one peg match
// exactly, the remaining peg cannot be a color-only match.
func (f Feedback) Validate(positions int) error {
	if f.Black < 0 || f.White < 0 {
		return fmt.Errorf("%w: 負の値です (black=%d, white=%d)", ErrInvalidFeedback, f.Black, f.White)
	}
	if f.Black+f.White > positions {
		return fmt.Errorf("%w: black+white=%d がpositions=%d を超えています", ErrInvalidFeedback, f.Black+f.White, positions)
	}
	if f.Black == positions-1 && f.White == 1 {
		return fmt.Errorf("%w: (black, white)=(%d, 1) は成立しない組み合わせです", ErrInvalidFeedback, f.Black)
	}
	return nil
}

// Index packs the feedback into a flat array index in
// [0, NumFeedbackIndexes(positions)). The feedback must already be valid;
// Index performs no checks.
func (f Feedback) Index(positions int) int {
	return (positions+1)*f.Black + f.White
}

// NumFeedbackIndexes returns the array length needed to bucket every
// feedback index for the given number of positions.
func NumFeedbackIndexes(positions int) int {
	return (positions + 1) * (positions + 1)
}

func (f Feedback) String() string {
	return fmt.Sprintf("%db%dw", f.Black, f.White)
}
