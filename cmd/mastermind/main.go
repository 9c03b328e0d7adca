// Command mastermind plays Mastermind against itself and reports how well
// each guessing strategy does.
package main

import (
	"errors"
	"flag"
	"fmt"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/peterh/liner"
	"github.com/seehuhn/mt19937"
	"github.com/sirupsen/logrus"
	"github.com/sw965/mastermind"
	"github.com/sw965/mastermind/chooser"
	"github.com/sw965/mastermind/game"
	"github.com/sw965/omw/mathx/randx"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var log = logrus.New()

var C = struct {
	Info, Warn, Header *color.Color
}{
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
}

var pinPalette = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

func colorizePin(c mastermind.Color) string {
	if int(c) < len(pinPalette) {
		return pinPalette[c].Sprint(int(c))
	}
	return strconv.Itoa(int(c))
}

func formatPattern(p mastermind.Pattern) string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = colorizePin(c)
	}
	return strings.Join(parts, " ")
}

func newRng(seed int64) *rand.Rand {
	mt := mt19937.New()
	mt.Seed(seed)
	return rand.New(mt)
}

func main() {
	chooseName := flag.String("choose", "first", fmt.Sprintf("how to choose a guess, one of [%s]", strings.Join(chooser.Names(), ", ")))
	all := flag.Bool("all", false, "enumerate and summarize every possible secret")
	pins := flag.Int("pins", 4, "number of pins in the secret pattern")
	colors := flag.Int("colors", 6, "number of different colors each pin can have")
	secretArg := flag.String("secret", "", "fixed secret pattern, e.g. \"2,4,1,1\" (random if empty)")
	manual := flag.Bool("manual", false, "you think of the secret and score each guess by hand")
	turnCap := flag.Int("cap", 10, "give up after this many rounds")
	seed := flag.Int64("seed", 0, "random seed (0 uses the current time)")
	parallelism := flag.Int("p", runtime.NumCPU(), "number of worker goroutines")
	out := flag.String("out", "", "write the sweep summary to this JSON file")
	logLevel := flag.String("loglevel", "info", "set logging level (debug, info, warn, error)")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	if *parallelism < 1 {
		log.Fatalf("-p must be at least 1, got %d", *parallelism)
	}

	ch, err := chooser.New(*chooseName, *parallelism)
	if err != nil {
		log.Fatalf("%s is unknown: valid choosers are [%s]", *chooseName, strings.Join(chooser.Names(), ", "))
	}

	logic, err := game.NewLogic(*pins, *colors, *turnCap, ch)
	if err != nil {
		log.Fatalf("Failed to set up the game: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Debugf("seed=%d parallelism=%d universe=%d", *seed, *parallelism, len(logic.Universe))

	switch {
	case *manual:
		runManual(logic, newRng(*seed))
	case *all:
		runSweep(logic, *chooseName, *seed, *parallelism, *out)
	default:
		secret, err := pickSecret(logic, *secretArg, newRng(*seed))
		if err != nil {
			log.Fatalf("Invalid secret: %v", err)
		}
		runOnce(logic, secret, newRng(*seed+1))
	}
}

func pickSecret(logic game.Logic, arg string, rng *rand.Rand) (mastermind.Pattern, error) {
	if arg == "" {
		return randx.Choice(logic.Universe, rng)
	}

	fields := strings.FieldsFunc(arg, func(r rune) bool {
		return r == ',' || r == ' '
	})
	secret := make(mastermind.Pattern, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		secret = append(secret, mastermind.Color(v))
	}
	if err := secret.Validate(logic.Positions, logic.Colors); err != nil {
		return nil, err
	}
	return secret, nil
}

func runOnce(logic game.Logic, secret mastermind.Pattern, rng *rand.Rand) {
	oracle, err := game.NewSecretOracle(secret, logic.Colors)
	if err != nil {
		log.Fatalf("Failed to set up the oracle: %v", err)
	}

	session, err := logic.NewSession(rng)
	if err != nil {
		log.Fatalf("Failed to start the session: %v", err)
	}

	turn := 0
	for session.Status() == game.AwaitingGuess {
		possible := session.Remaining()
		guess, err := session.NextGuess()
		if err != nil {
			log.Fatalf("Failed to choose a guess: %v", err)
		}
		fb, err := oracle(guess)
		if err != nil {
			log.Fatalf("Failed to score the guess: %v", err)
		}
		if err := session.ApplyFeedback(fb); err != nil {
			log.Fatalf("Failed to apply the feedback: %v", err)
		}
		turn++
		fmt.Printf("Round %d: %5d possible, guessed [%s], got %d red, %d white\n", turn, possible, formatPattern(guess), fb.Black, fb.White)
	}

	switch session.Status() {
	case game.Solved:
		C.Info.Printf("Solved in %d rounds.\n", turn)
	case game.Exhausted:
		C.Warn.Printf("Gave up after %d rounds. The secret was [%s].\n", turn, formatPattern(secret))
	}
}

func runManual(logic game.Logic, rng *rand.Rand) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	session, err := logic.NewSession(rng)
	if err != nil {
		log.Fatalf("Failed to start the session: %v", err)
	}

	C.Header.Printf("Think of a pattern: %d pins, colors 0-%d.\n", logic.Positions, logic.Colors-1)
	C.Info.Println("Score each guess with \"<red> <white>\", e.g. \"1 2\". Ctrl-C quits.")

	turn := 0
	for session.Status() == game.AwaitingGuess {
		possible := session.Remaining()
		guess, err := session.NextGuess()
		if err != nil {
			log.Fatalf("Failed to choose a guess: %v", err)
		}
		turn++
		fmt.Printf("Round %d: %5d possible, guessed [%s]\n", turn, possible, formatPattern(guess))

		for {
			fb, ok := promptFeedback(line)
			if !ok {
				C.Info.Println("Goodbye!")
				return
			}

			err := session.ApplyFeedback(fb)
			if err == nil {
				break
			}
			if errors.Is(err, mastermind.ErrInvalidFeedback) {
				C.Warn.Printf("That score is impossible with %d pins, try again.\n", logic.Positions)
				continue
			}
			if errors.Is(err, mastermind.ErrInconsistentFeedback) {
				C.Warn.Println("No pattern matches those scores. One of them must be wrong.")
				return
			}
			log.Fatalf("Failed to apply the feedback: %v", err)
		}
	}

	switch session.Status() {
	case game.Solved:
		C.Info.Printf("Solved in %d rounds.\n", turn)
	case game.Exhausted:
		C.Warn.Printf("Gave up after %d rounds.\n", turn)
	}
}

func promptFeedback(line *liner.State) (mastermind.Feedback, bool) {
	for {
		input, err := line.Prompt("red white> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return mastermind.Feedback{}, false
			}
			log.Fatalf("Error reading line: %v", err)
		}

		fields := strings.Fields(strings.ReplaceAll(input, ",", " "))
		if len(fields) != 2 {
			C.Warn.Println("Enter two numbers, e.g. \"1 2\".")
			continue
		}
		red, err1 := strconv.Atoi(fields[0])
		white, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			C.Warn.Println("Enter two numbers, e.g. \"1 2\".")
			continue
		}

		line.AppendHistory(input)
		return mastermind.Feedback{Black: red, White: white}, true
	}
}

func runSweep(logic game.Logic, name string, seed int64, parallelism int, out string) {
	rngs := make([]*rand.Rand, parallelism)
	for i := range rngs {
		rngs[i] = newRng(seed + int64(i))
	}

	// 決定的な戦略は初手が毎回同じなので、1回だけ計算して使い回す
	sharedOpening := name != "random"

	log.Infof("Sweeping %d secrets with %s...", len(logic.Universe), name)
	start := time.Now()
	records, err := logic.SweepAll(rngs, sharedOpening)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Infof("Done in %v.", time.Since(start).Round(time.Millisecond))

	sweep := game.NewSweep(records)
	renderSweep(name, sweep)

	if out != "" {
		if err := sweep.SaveJSON(out); err != nil {
			log.Fatalf("Failed to write %s: %v", out, err)
		}
		log.Infof("Wrote %s", out)
	}
}

func renderSweep(name string, sweep game.Sweep) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(name)
	t.AppendHeader(table.Row{"Rounds", "Trials"})
	for _, turns := range sweep.Histogram.SortedTurns() {
		t.AppendRow(table.Row{turns, sweep.Histogram[turns]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"games", sweep.Games})
	t.AppendRow(table.Row{"solved", sweep.Solved})
	t.AppendRow(table.Row{"failed", sweep.Failed})
	t.AppendRow(table.Row{"mean", fmt.Sprintf("%.4f", sweep.MeanTurns())})
	t.AppendRow(table.Row{"stddev", fmt.Sprintf("%.4f", sweep.StdDevTurns())})
	t.AppendRow(table.Row{"max", sweep.Histogram.MaxTurns()})
	t.SetStyle(table.StyleLight)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	t.Render()
}
