// Package game runs code-breaking matches. It owns the turn loop, the
// candidate-set lifecycle and the match records; the mastermind package
// itself stays pure.
//
// Package game はコード当てゲームの対局進行を担います。ターンのループ、
// 候補集合のライフサイクル、対局記録を管理し、mastermindパッケージ自体は
// 純粋なまま保たれます。
package game

import (
	"errors"
	"fmt"
	"github.com/sw965/mastermind"
	"github.com/sw965/mastermind/chooser"
	"math/rand/v2"
	"slices"
)

var (
	ErrEmptySlice = errors.New("空スライスエラー")

	ErrNilChooser     = errors.New("Logicエラー: Chooserがnilです")
	ErrInvalidTurnCap = errors.New("Logicエラー: TurnCapは1以上である必要があります")

	ErrInvalidTransition = errors.New("Sessionエラー: 現在の状態では呼び出せません")
)

// Status is the session state. AwaitingGuess and AwaitingFeedback alternate
// during play; Solved and Exhausted are terminal.
//
// Statusはセッションの状態です。対局中はAwaitingGuessとAwaitingFeedbackが
// 交互に現れ、SolvedとExhaustedが終端です。
type Status int

const (
	AwaitingGuess Status = iota
	AwaitingFeedback
	Solved
	Exhausted
)

func (s Status) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting_guess"
	case AwaitingFeedback:
		return "awaiting_feedback"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

func (s Status) IsTerminal() bool {
	return s == Solved || s == Exhausted
}

// Round is one completed turn: the guess, the feedback it received, and the
// number of candidates remaining afterwards. On the solving round Remaining
// is 1.
type Round struct {
	Guess     mastermind.Pattern
	Feedback  mastermind.Feedback
	Remaining int
}

// Record is the outcome of one match.
type Record struct {
	Rounds []Round
	Status Status
}

func (r Record) Turns() int {
	return len(r.Rounds)
}

// Oracle answers a guess with feedback. The driver does not care whether the
// answers come from a hidden secret, from user input or from elsewhere, but
// they must stay mutually consistent.
//
// Oracleは推測にフィードバックを返します。答えの出所が隠された秘密パターンか、
// ユーザー入力か、それ以外かをドライバーは区別しませんが、
// answerどうしは互いに矛盾しない必要があります。
type Oracle func(mastermind.Pattern) (mastermind.Feedback, error)

// NewSecretOracle returns an Oracle that grades guesses against a fixed
// secret. The oracle reuses one evaluator, so it must not be shared between
// goroutines.
func NewSecretOracle(secret mastermind.Pattern, colors int) (Oracle, error) {
	ev, err := mastermind.NewEvaluator(len(secret), colors)
	if err != nil {
		return nil, err
	}
	if err := secret.Validate(len(secret), colors); err != nil {
		return nil, err
	}

	secret = secret.Clone()
	return func(guess mastermind.Pattern) (mastermind.Feedback, error) {
		return ev.Evaluate(guess, secret)
	}, nil
}

// Logic is the configuration of a match: the pattern space, the strategy and
// the turn budget. Opening, when non-nil, fixes the first guess; sweeps use
// it to avoid recomputing a deterministic opening for every game.
//
// Logicは対局の設定（パターン空間、戦略、手数上限）です。Openingがnilで
// なければ初手を固定します。全数対局では決定的な戦略の初手を毎回計算し直さない
// 為に使われます。
type Logic struct {
	Universe  mastermind.Patterns
	Positions int
	Colors    int
	TurnCap   int
	Chooser   chooser.Func
	Opening   mastermind.Pattern
}

// NewLogic builds the universe for the given size and wires in the strategy.
func NewLogic(positions, colors, turnCap int, ch chooser.Func) (Logic, error) {
	universe, err := mastermind.NewUniverse(positions, colors)
	if err != nil {
		return Logic{}, err
	}

	l := Logic{
		Universe:  universe,
		Positions: positions,
		Colors:    colors,
		TurnCap:   turnCap,
		Chooser:   ch,
	}
	if err := l.Validate(); err != nil {
		return Logic{}, err
	}
	return l, nil
}

func (l Logic) Validate() error {
	if l.Chooser == nil {
		return ErrNilChooser
	}
	if l.TurnCap < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTurnCap, l.TurnCap)
	}
	if l.Positions < 1 || l.Colors < 1 {
		return fmt.Errorf("%w: positions=%d, colors=%d", mastermind.ErrInvalidSize, l.Positions, l.Colors)
	}
	if len(l.Universe) == 0 {
		return fmt.Errorf("%w: Universe", ErrEmptySlice)
	}
	if err := l.Universe[0].Validate(l.Positions, l.Colors); err != nil {
		return err
	}
	if l.Opening != nil {
		if err := l.Opening.Validate(l.Positions, l.Colors); err != nil {
			return err
		}
	}
	return nil
}

// Session steps one match through its state machine. NewSession starts in
// AwaitingGuess, NextGuess moves to AwaitingFeedback, and ApplyFeedback moves
// back to AwaitingGuess or into a terminal state. Use Logic.Play unless the
// feedback arrives interactively.
//
// Sessionは1対局を状態機械として進めます。NewSessionはAwaitingGuessから始まり、
// NextGuessでAwaitingFeedbackへ、ApplyFeedbackでAwaitingGuessか終端状態へ移ります。
// フィードバックを対話的に受け取る場合以外はLogic.Playを使ってください。
type Session struct {
	logic      Logic
	evaluator  *mastermind.Evaluator
	candidates mastermind.Patterns
	rng        *rand.Rand
	status     Status
	rounds     []Round
	lastGuess  mastermind.Pattern
}

func (l Logic) NewSession(rng *rand.Rand) (*Session, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	ev, err := mastermind.NewEvaluator(l.Positions, l.Colors)
	if err != nil {
		return nil, err
	}

	return &Session{
		logic:      l,
		evaluator:  ev,
		candidates: mastermind.InitialCandidates(l.Universe),
		rng:        rng,
		status:     AwaitingGuess,
		rounds:     make([]Round, 0, l.TurnCap),
	}, nil
}

func (s *Session) Status() Status {
	return s.status
}

// Remaining returns the current number of candidates consistent with the
// feedback so far.
func (s *Session) Remaining() int {
	return len(s.candidates)
}

// NextGuess asks the strategy for the next guess and moves the session to
// AwaitingFeedback. On the first turn a fixed Opening takes precedence over
// the strategy.
func (s *Session) NextGuess() (mastermind.Pattern, error) {
	if s.status != AwaitingGuess {
		return nil, fmt.Errorf("%w: status=%v", ErrInvalidTransition, s.status)
	}

	var guess mastermind.Pattern
	if len(s.rounds) == 0 && s.logic.Opening != nil {
		guess = s.logic.Opening
	} else {
		var err error
		guess, err = s.logic.Chooser(s.logic.Universe, s.candidates, s.rng)
		if err != nil {
			return nil, err
		}
	}

	s.lastGuess = guess
	s.status = AwaitingFeedback
	return guess, nil
}

// ApplyFeedback incorporates the oracle's answer for the pending guess.
// Solving feedback ends the session. Otherwise the candidates are filtered
// and the session either returns to AwaitingGuess or exhausts its turn
// budget. Feedback contradicting the history exhausts the session and
// reports mastermind.ErrInconsistentFeedback.
func (s *Session) ApplyFeedback(fb mastermind.Feedback) error {
	if s.status != AwaitingFeedback {
		return fmt.Errorf("%w: status=%v", ErrInvalidTransition, s.status)
	}

	if err := fb.Validate(s.logic.Positions); err != nil {
		return err
	}

	if fb.IsSolved(s.logic.Positions) {
		s.rounds = append(s.rounds, Round{Guess: s.lastGuess, Feedback: fb, Remaining: 1})
		s.status = Solved
		return nil
	}

	filtered, err := s.evaluator.Filter(s.candidates, s.lastGuess, fb)
	if err != nil {
		s.status = Exhausted
		return err
	}
	s.candidates = filtered

	s.rounds = append(s.rounds, Round{Guess: s.lastGuess, Feedback: fb, Remaining: len(filtered)})
	if len(s.rounds) >= s.logic.TurnCap {
		s.status = Exhausted
	} else {
		s.status = AwaitingGuess
	}
	return nil
}

// Record snapshots the session's history so far.
func (s *Session) Record() Record {
	return Record{
		Rounds: slices.Clone(s.rounds),
		Status: s.status,
	}
}

// Play runs a whole match against the oracle. When an error occurs mid-game,
// the returned record still holds the rounds completed up to the failure.
func (l Logic) Play(oracle Oracle, rng *rand.Rand) (Record, error) {
	session, err := l.NewSession(rng)
	if err != nil {
		return Record{}, err
	}

	for session.Status() == AwaitingGuess {
		guess, err := session.NextGuess()
		if err != nil {
			return session.Record(), err
		}

		fb, err := oracle(guess)
		if err != nil {
			return session.Record(), fmt.Errorf("oracle: %w", err)
		}

		if err := session.ApplyFeedback(fb); err != nil {
			return session.Record(), err
		}
	}
	return session.Record(), nil
}
