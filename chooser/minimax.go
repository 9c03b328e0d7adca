package chooser

import (
	"github.com/chewxy/math32"
	"github.com/sw965/mastermind"
	"github.com/sw965/omw/parallel"
	"math/rand/v2"
)

// bucketScoreFunc はフィードバック分布（区分毎の候補数）を1つのスコアに潰す。
type bucketScoreFunc func(buckets []int, total int) float32

// 最悪ケース、つまり最も候補が多く残る区分の大きさ。
func maxBucketScore(buckets []int, total int) float32 {
	max := 0
	for _, n := range buckets {
		if n > max {
			max = n
		}
	}
	return float32(max)
}

// フィードバック分布のシャノンエントロピー（bit単位）。
func entropyScore(buckets []int, total int) float32 {
	t := float32(total)
	var h float32
	for _, n := range buckets {
		if n == 0 {
			continue
		}
		p := float32(n) / t
		h -= p * math32.Log2(p)
	}
	return h
}

type scanResult struct {
	score        float32
	inCandidates bool
	idx          int
}

// betterThan reports whether a beats b under the shared total order:
// score first (direction given by maximize), then membership in the
// candidate set, then the smaller universe index.
func (a scanResult) betterThan(b scanResult, maximize bool) bool {
	if a.score != b.score {
		if maximize {
			return a.score > b.score
		}
		return a.score < b.score
	}
	if a.inCandidates != b.inCandidates {
		return a.inCandidates
	}
	return a.idx < b.idx
}

// scanBest scores every guess in the universe by the feedback distribution it
// induces over the candidates and returns the best one. Workers keep their
// own evaluator, bucket counters and running best; the final reduction
// compares with the same total order as the per-worker updates, so the result
// never depends on scheduling.
//
// scanBestはユニバースの全推測について、候補集合上に生じるフィードバック分布を
// 集計し、最良の推測を返します。ワーカー毎に評価器・区分カウンタ・暫定最良を持ち、
// 最後のリダクションもワーカー内の更新と同じ全順序で比較する為、
// 結果はスケジューリングに依存しません。
func scanBest(universe, candidates mastermind.Patterns, parallelism int, score bucketScoreFunc, maximize bool) (mastermind.Pattern, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}
	if len(universe) == 0 {
		return nil, ErrEmptyUniverse
	}

	positions := len(universe[0])
	colors := maxColors(universe)

	p := parallelism
	if p < 1 {
		p = 1
	}

	numIdx := mastermind.NumFeedbackIndexes(positions)
	evs := make([]*mastermind.Evaluator, p)
	bucketss := make([][]int, p)
	for i := range evs {
		ev, err := mastermind.NewEvaluator(positions, colors)
		if err != nil {
			return nil, err
		}
		evs[i] = ev
		bucketss[i] = make([]int, numIdx)
	}

	memberCodes := make(map[int]struct{}, len(candidates))
	for _, candidate := range candidates {
		memberCodes[candidate.Code(colors)] = struct{}{}
	}

	bests := make([]scanResult, p)
	for i := range bests {
		bests[i] = scanResult{idx: -1}
	}

	err := parallel.For(len(universe), p, func(workerId, idx int) error {
		ev := evs[workerId]
		buckets := bucketss[workerId]
		clear(buckets)

		guess := universe[idx]
		for _, secret := range candidates {
			fb, err := ev.Evaluate(guess, secret)
			if err != nil {
				return err
			}
			buckets[fb.Index(positions)]++
		}

		_, in := memberCodes[guess.Code(colors)]
		result := scanResult{
			score:        score(buckets, len(candidates)),
			inCandidates: in,
			idx:          idx,
		}

		if bests[workerId].idx == -1 || result.betterThan(bests[workerId], maximize) {
			bests[workerId] = result
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	final := scanResult{idx: -1}
	for _, b := range bests {
		if b.idx == -1 {
			continue
		}
		if final.idx == -1 || b.betterThan(final, maximize) {
			final = b
		}
	}

	if final.idx == -1 {
		panic("BUG: 空でないユニバースを走査したのに結果が無い")
	}
	return universe[final.idx], nil
}

func maxColors(ps mastermind.Patterns) int {
	max := mastermind.Color(0)
	for _, p := range ps {
		for _, c := range p {
			if c > max {
				max = c
			}
		}
	}
	return int(max) + 1
}

// NewMinimaxBest returns the worst-case-minimizing strategy: every pattern in
// the universe (consistent with the history or not) is scored by partitioning
// the candidates according to the feedback the guess would receive, and the
// guess whose largest partition is smallest wins. Ties prefer a guess that is
// itself still a candidate, then the lexicographically smaller pattern.
//
// NewMinimaxBestは最悪ケース最小化の戦略を返します。ユニバースの全パターン
// （履歴と矛盾するものも含む）について、その推測が受け取り得るフィードバック毎に
// 候補を区分けし、最大の区分が最小になる推測を選びます。同点の場合は
// 自身が候補として残っている推測を優先し、その次に辞書順で小さい方を選びます。
func NewMinimaxBest(parallelism int) Func {
	return func(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error) {
		if len(candidates) == 0 {
			return nil, ErrEmptyCandidates
		}
		// 候補が2以下なら先頭の候補が走査と同じ答えになるので、走査を省く
		if len(candidates) <= 2 {
			return candidates[0], nil
		}
		return scanBest(universe, candidates, parallelism, maxBucketScore, false)
	}
}

// NewMinimaxWorst returns the reversed objective: the guess whose largest
// partition is largest. The scan and the tie-breaks are the same as
// NewMinimaxBest, only the comparison direction flips. It serves as an
// adversarial baseline when comparing strategies.
//
// NewMinimaxWorstは目的を反転した戦略を返します。最大の区分が最大になる推測を
// 選びます。走査もタイブレークもNewMinimaxBestと同一で、比較の向きだけが逆です。
// 戦略比較の際の敵対的な基準として使えます。
func NewMinimaxWorst(parallelism int) Func {
	return func(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error) {
		return scanBest(universe, candidates, parallelism, maxBucketScore, true)
	}
}

// NewEntropy returns the information-gain strategy: the guess maximizing the
// Shannon entropy of its feedback distribution. Tie-breaks match the minimax
// strategies.
//
// NewEntropyは情報利得の戦略を返します。フィードバック分布のシャノン
// エントロピーが最大の推測を選びます。タイブレークはminimax系と同じです。
func NewEntropy(parallelism int) Func {
	return func(universe, candidates mastermind.Patterns, rng *rand.Rand) (mastermind.Pattern, error) {
		return scanBest(universe, candidates, parallelism, entropyScore, true)
	}
}
