package chooser_test

import (
	"errors"
	"github.com/chewxy/math32"
	"github.com/sw965/mastermind"
	"github.com/sw965/mastermind/chooser"
	"testing"
)

// テスト専用の素朴な逐次実装。走査・並列化・省略を一切行わない形で書き、
// 実装本体と突き合わせる。
func naiveScan(t *testing.T, universe, candidates mastermind.Patterns, colors int, score func(buckets []int, total int) float32, maximize bool) mastermind.Pattern {
	t.Helper()

	positions := len(universe[0])
	ev, err := mastermind.NewEvaluator(positions, colors)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	member := map[int]struct{}{}
	for _, c := range candidates {
		member[c.Code(colors)] = struct{}{}
	}

	bestIdx := -1
	var bestScore float32
	bestIn := false

	for idx, guess := range universe {
		buckets := make([]int, mastermind.NumFeedbackIndexes(positions))
		for _, secret := range candidates {
			fb, err := ev.Evaluate(guess, secret)
			if err != nil {
				t.Fatalf("予期せぬエラーが発生した: %v", err)
			}
			buckets[fb.Index(positions)]++
		}

		s := score(buckets, len(candidates))
		_, in := member[guess.Code(colors)]

		better := false
		switch {
		case bestIdx == -1:
			better = true
		case s != bestScore:
			if maximize {
				better = s > bestScore
			} else {
				better = s < bestScore
			}
		case in != bestIn:
			better = in
		}

		// 同点かつ所属も同じなら、先に現れた（辞書順で小さい）方が残る
		if better {
			bestIdx, bestScore, bestIn = idx, s, in
		}
	}
	return universe[bestIdx]
}

func naiveMaxBucket(buckets []int, total int) float32 {
	max := 0
	for _, n := range buckets {
		if n > max {
			max = n
		}
	}
	return float32(max)
}

func naiveEntropy(buckets []int, total int) float32 {
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

func TestMinimaxBestOpening(t *testing.T) {
	universe := newTestUniverse(t, 4, 6)

	got, err := chooser.NewMinimaxBest(4)(universe, universe, nil)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	// 2色2個ずつの形が最悪ケース256で最小となり、その辞書順最小がこれ
	want := mastermind.Pattern{0, 0, 1, 1}
	if !got.Equal(want) {
		t.Errorf("want: %v, got: %v", want, got)
	}
}

func TestMinimaxWorstOpening(t *testing.T) {
	universe := newTestUniverse(t, 4, 6)

	got, err := chooser.NewMinimaxWorst(4)(universe, universe, nil)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	// 単色は外れ区分に5^4=625が残り得るので、最悪ケース最大。辞書順最小の単色がこれ
	want := mastermind.Pattern{0, 0, 0, 0}
	if !got.Equal(want) {
		t.Errorf("want: %v, got: %v", want, got)
	}
}

func TestScanMatchesNaive(t *testing.T) {
	positions, colors := 2, 3
	universe := newTestUniverse(t, positions, colors)

	ev, err := mastermind.NewEvaluator(positions, colors)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	afterOneRound, err := ev.Filter(universe, mastermind.Pattern{0, 1}, mastermind.Feedback{Black: 1, White: 0})
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	candidateSets := []struct {
		name       string
		candidates mastermind.Patterns
	}{
		{name: "全候補", candidates: universe},
		{name: "1手後の候補", candidates: afterOneRound},
		{name: "飛び飛びの候補", candidates: mastermind.Patterns{{0, 2}, {1, 0}, {2, 1}}},
	}

	strategies := []struct {
		name     string
		f        chooser.Func
		score    func(buckets []int, total int) float32
		maximize bool
		shortcut bool
	}{
		{name: "minimax-best", f: chooser.NewMinimaxBest(3), score: naiveMaxBucket, maximize: false, shortcut: true},
		{name: "minimax-worst", f: chooser.NewMinimaxWorst(3), score: naiveMaxBucket, maximize: true},
		{name: "entropy", f: chooser.NewEntropy(3), score: naiveEntropy, maximize: true},
	}

	for _, st := range strategies {
		for _, cs := range candidateSets {
			t.Run(st.name+"_"+cs.name, func(t *testing.T) {
				// 素朴実装は省略をしないので、省略が効く候補数の集合は比較対象から外す
				if st.shortcut && len(cs.candidates) <= 2 {
					t.Skipf("候補数%dは省略経路", len(cs.candidates))
				}

				got, err := st.f(universe, cs.candidates, nil)
				if err != nil {
					t.Fatalf("予期せぬエラーが発生した: %v", err)
				}

				want := naiveScan(t, universe, cs.candidates, colors, st.score, st.maximize)
				if !got.Equal(want) {
					t.Errorf("want: %v, got: %v", want, got)
				}
			})
		}
	}
}

func TestScanMatchesNaiveThreePins(t *testing.T) {
	positions, colors := 3, 3
	universe := newTestUniverse(t, positions, colors)

	for _, name := range []string{"minimax-best", "minimax-worst", "entropy"} {
		f, err := chooser.New(name, 2)
		if err != nil {
			t.Fatalf("予期せぬエラーが発生した: %v", err)
		}

		got, err := f(universe, universe, nil)
		if err != nil {
			t.Fatalf("予期せぬエラーが発生した: %v", err)
		}

		var want mastermind.Pattern
		switch name {
		case "minimax-best":
			want = naiveScan(t, universe, universe, colors, naiveMaxBucket, false)
		case "minimax-worst":
			want = naiveScan(t, universe, universe, colors, naiveMaxBucket, true)
		case "entropy":
			want = naiveScan(t, universe, universe, colors, naiveEntropy, true)
		}

		if !got.Equal(want) {
			t.Errorf("%s: want: %v, got: %v", name, want, got)
		}
	}
}

// 並列数を変えても選ばれる推測は変わらない。
func TestMinimaxBestDeterministic(t *testing.T) {
	universe := newTestUniverse(t, 4, 6)

	ev, err := mastermind.NewEvaluator(4, 6)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	candidates, err := ev.Filter(universe, mastermind.Pattern{0, 0, 1, 1}, mastermind.Feedback{Black: 1, White: 1})
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	serial, err := chooser.NewMinimaxBest(1)(universe, candidates, nil)
	if err != nil {
		t.Fatalf("予期せぬエラーが発生した: %v", err)
	}

	for _, p := range []int{2, 3, 7} {
		got, err := chooser.NewMinimaxBest(p)(universe, candidates, nil)
		if err != nil {
			t.Fatalf("予期せぬエラーが発生した: %v", err)
		}
		if !got.Equal(serial) {
			t.Errorf("p=%d, want: %v, got: %v", p, serial, got)
		}
	}
}

func TestMinimaxBestShortcut(t *testing.T) {
	universe := newTestUniverse(t, 4, 6)

	tests := []struct {
		name       string
		candidates mastermind.Patterns
		want       mastermind.Pattern
	}{
		{
			name:       "正常_候補1つ",
			candidates: mastermind.Patterns{{3, 3, 3, 3}},
			want:       mastermind.Pattern{3, 3, 3, 3},
		},
		{
			name:       "正常_候補2つ",
			candidates: mastermind.Patterns{{3, 3, 3, 3}, {5, 5, 5, 5}},
			want:       mastermind.Pattern{3, 3, 3, 3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := chooser.NewMinimaxBest(2)(universe, tc.candidates, nil)
			if err != nil {
				t.Fatalf("予期せぬエラーが発生した: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("want: %v, got: %v", tc.want, got)
			}
		})
	}
}

func TestScanEmptyCandidates(t *testing.T) {
	universe := newTestUniverse(t, 2, 3)

	for _, name := range []string{"minimax-best", "minimax-worst", "entropy"} {
		f, err := chooser.New(name, 2)
		if err != nil {
			t.Fatalf("予期せぬエラーが発生した: %v", err)
		}

		if _, err := f(universe, mastermind.Patterns{}, nil); !errors.Is(err, chooser.ErrEmptyCandidates) {
			t.Errorf("%s: 期待されるエラー型が埋め込まれていません。want: %v, got: %v", name, chooser.ErrEmptyCandidates, err)
		}
	}
}

func BenchmarkMinimaxBestOpening(b *testing.B) {
	universe, err := mastermind.NewUniverse(4, 6)
	if err != nil {
		b.Fatal(err)
	}

	f := chooser.NewMinimaxBest(4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f(universe, universe, nil); err != nil {
			b.Fatal(err)
		}
	}
}
