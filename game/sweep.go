package game

import (
	"fmt"
	"github.com/sw965/mastermind"
	"github.com/sw965/omw/encoding/jsonx"
	"github.com/sw965/omw/parallel"
	"gonum.org/v1/gonum/stat"
	"math/rand/v2"
	"sort"
)

// SweepAll plays one match per universe pattern, using each in turn as the
// secret, and returns the records in universe order. sharedOpening computes
// the first guess once and fixes it for every game, which is sound for
// deterministic strategies. Parallelism is len(rngs); each worker keeps its
// own rng and evaluator.
//
// SweepAllはユニバースの全パターンを順に秘密として1対局ずつ行い、
// 記録をユニバース順で返します。sharedOpeningをtrueにすると初手を1回だけ
// 計算して全対局で固定します。これは決定的な戦略に対しては健全です。
// 並列数はlen(rngs)で、ワーカー毎に自分のrngと評価器を持ちます。
func (l Logic) SweepAll(rngs []*rand.Rand, sharedOpening bool) ([]Record, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	p := len(rngs)
	if p == 0 {
		return nil, fmt.Errorf("%w: rngs", ErrEmptySlice)
	}

	// レシーバは値なので、ここでの固定は呼び出し側のLogicへ波及しない
	if sharedOpening && l.Opening == nil {
		opening, err := l.Chooser(l.Universe, mastermind.InitialCandidates(l.Universe), rngs[0])
		if err != nil {
			return nil, err
		}
		l.Opening = opening
	}

	evs := make([]*mastermind.Evaluator, p)
	for i := range evs {
		ev, err := mastermind.NewEvaluator(l.Positions, l.Colors)
		if err != nil {
			return nil, err
		}
		evs[i] = ev
	}

	n := len(l.Universe)
	records := make([]Record, n)

	err := parallel.For(n, p, func(workerId, idx int) error {
		secret := l.Universe[idx]
		ev := evs[workerId]
		oracle := func(guess mastermind.Pattern) (mastermind.Feedback, error) {
			return ev.Evaluate(guess, secret)
		}

		record, err := l.Play(oracle, rngs[workerId])
		if err != nil {
			return fmt.Errorf("secret=%v: %w", secret, err)
		}
		records[idx] = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Histogram maps turns taken to the number of games that finished in exactly
// that many turns.
//
// Histogramは手数をキーに、ちょうどその手数で終わった対局数を持ちます。
type Histogram map[int]int

func (h Histogram) Total() int {
	total := 0
	for _, games := range h {
		total += games
	}
	return total
}

// SortedTurns returns the turn counts present in the histogram, ascending.
func (h Histogram) SortedTurns() []int {
	turns := make([]int, 0, len(h))
	for t := range h {
		turns = append(turns, t)
	}
	sort.Ints(turns)
	return turns
}

func (h Histogram) MaxTurns() int {
	max := 0
	for t := range h {
		if t > max {
			max = t
		}
	}
	return max
}

// Sweep aggregates the records of a full sweep.
//
// Sweepは全数対局の記録の集計です。
type Sweep struct {
	Games     int
	Solved    int
	Failed    int
	Histogram Histogram
}

func NewSweep(records []Record) Sweep {
	s := Sweep{Histogram: Histogram{}}
	for _, r := range records {
		s.Games++
		if r.Status == Solved {
			s.Solved++
		} else {
			s.Failed++
		}
		s.Histogram[r.Turns()]++
	}
	return s
}

// MeanTurns returns the average turns per game. Failed games count at the
// turns they consumed.
func (s Sweep) MeanTurns() float64 {
	xs, ws := s.histWeights()
	return stat.Mean(xs, ws)
}

func (s Sweep) StdDevTurns() float64 {
	xs, ws := s.histWeights()
	return stat.StdDev(xs, ws)
}

func (s Sweep) histWeights() ([]float64, []float64) {
	turns := s.Histogram.SortedTurns()
	xs := make([]float64, len(turns))
	ws := make([]float64, len(turns))
	for i, t := range turns {
		xs[i] = float64(t)
		ws[i] = float64(s.Histogram[t])
	}
	return xs, ws
}

func LoadSweepJSON(path string) (Sweep, error) {
	return jsonx.Load[Sweep](path)
}

func (s Sweep) SaveJSON(path string) error {
	err := jsonx.Save[Sweep](s, path)
	return err
}
